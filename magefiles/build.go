//go:build mage

package main

import (
	"path/filepath"

	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

var commands = []string{"collexport", "collbatch", "uvcollapse", "collinspect"}

// Downloads modules and builds every command into bin/.
func (Build) All() error {
	if _, err := executeCmd("go", withArgs("mod", "download")); err != nil {
		return err
	}
	for _, name := range commands {
		out := filepath.Join("bin", name)
		if _, err := executeCmd("go", withArgs("build", "-o", out, "./cmd/"+name), withStream()); err != nil {
			return err
		}
	}
	return nil
}

// Runs go vet over the module.
func (Build) Vet() error {
	_, err := executeCmd("go", withArgs("vet", "./..."), withStream())
	return err
}
