//go:build mage

// Package main contains Mage build targets for pubrank developer tooling.
// Implements: docs/ARCHITECTURE § Developer Tooling.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// projectDirs lists the working directories the CLI expects.
var projectDirs = []string{
	"reports",
	".secrets",
}

// Init creates the project directory structure.
func Init() error {
	for _, dir := range projectDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	fmt.Println("Project directories initialized.")
	return nil
}

const (
	binDir  = "bin"
	binName = "pubrank"
	cmdPkg  = "./cmd/pubrank"
)

// Build compiles the CLI binary into bin/, stamping the version from git.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}

	version, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil {
		version = "dev"
	}

	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-ldflags", "-X main.version="+version, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s (%s)\n", out, version)
	return nil
}

// Test runs the full test suite with race detection.
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Vet runs go vet over the module.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// All builds the binary and runs vet and tests.
func All() {
	mg.SerialDeps(Vet, Test, Build)
}

// Clean removes build artifacts.
func Clean() error {
	return sh.Rm(binDir)
}
