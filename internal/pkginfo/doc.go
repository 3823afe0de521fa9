// Package pkginfo determines the name (and, when known, the version) of the
// package a specifier will install. Archive specifiers are downloaded or read
// and unpacked into a temporary directory to read their manifest; when that
// fails the name is guessed from the file name and the Identity says so.
package pkginfo
