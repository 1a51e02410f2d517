//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Default target builds the binary.
var Default = Build

// Build compiles the cistat binary into bin/.
func Build() error {
	return sh.Run("go", "build", "-o", "bin/cistat", "./cmd/cistat")
}

// Test runs the test suite.
func Test() error {
	return sh.Run("go", "test", "./...")
}

// Vet runs go vet across the module.
func Vet() error {
	return sh.Run("go", "vet", "./...")
}

// QA runs vet and the test suite.
func QA() error {
	mg.Deps(Vet)
	return Test()
}

// Clean removes build artifacts.
func Clean() error {
	return sh.Rm("bin")
}
