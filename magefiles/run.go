//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Runs a demo; the name is taken from $DEMO, or from config.toml when unset.
func (Run) Demo() error {
	mg.Deps(Build.Shaders)
	args := []string{"run", ".", "-config", "config.toml"}
	if demo := os.Getenv("DEMO"); demo != "" {
		args = append(args, "-demo", demo)
	}
	fmt.Println("Run demo...")
	if _, err := executeCmd("go", withArgs(args...), withStream()); err != nil {
		return err
	}
	return nil
}

type Test mg.Namespace

// Runs the package tests with the race detector.
func (Test) All() error {
	if _, err := executeCmd("go", withArgs("test", "-race", "-count=1", "./..."), withStream()); err != nil {
		return err
	}
	return nil
}
