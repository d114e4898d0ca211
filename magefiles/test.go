//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Test mg.Namespace

// Runs the unit tests.
func (Test) Unit() error {
	_, err := executeCmd("go", withArgs("test", "./..."), withStream())
	return err
}

// Runs the unit tests with the race detector.
func (Test) Race() error {
	mg.Deps(Build.Vet)
	_, err := executeCmd("go", withArgs("test", "-race", "./..."), withStream())
	return err
}
