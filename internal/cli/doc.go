// Package cli defines the Cobra root command. It parses the command line,
// sets up logging and color, loads configuration and hands the request to
// the scaffold package.
package cli
