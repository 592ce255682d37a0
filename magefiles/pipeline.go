//go:build mage

package main

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

// Process runs the extraction pipeline over the papers directory using the
// built binary.
func Process() error {
	mg.Deps(Build)
	return run(filepath.Join(binDir, binName), "process")
}

// Export serializes the assertion set to Turtle using the built binary.
func Export() error {
	mg.Deps(Build)
	return run(filepath.Join(binDir, binName), "export", "--format", "turtle")
}

func run(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
