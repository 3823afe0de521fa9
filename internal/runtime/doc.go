// Package runtime inspects the Node.js toolchain the generated project will
// be installed with: Node and npm versions, and whether npm starts in the
// directory it is asked to.
package runtime
