// The main package for the docsentry executable.
package main

import (
	"github.com/docsentry/docsentry/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
