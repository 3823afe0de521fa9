// Package templatedir copies an installed template package's template/
// directory into the new project.
//
// The template package is located the way Node resolves
// require("<name>/package.json"): node_modules directories are searched from
// the project directory up to the filesystem root.
package templatedir
