// Package scaffold creates a new app: it checks the project name and target
// directory, installs the template package and copies its files into place.
//
// Run executes the install pipeline and owns the single failure path. Any
// stage error prints an abort report, rolls the target directory back and
// returns an ABORTED error.
package scaffold
