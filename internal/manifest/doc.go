// Package manifest reads and validates package.json manifests of template
// packages. Files are parsed leniently (comments and trailing commas are
// tolerated) and checked against an embedded JSON Schema before use.
package manifest
