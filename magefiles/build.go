//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

const binaryName = "anima-scenes"

// Builds the demo binary into bin/.
func (Build) Engine() error {
	if err := os.MkdirAll("bin", 0o755); err != nil {
		return err
	}
	if _, err := executeCmd("go", withArgs("build", "-o", filepath.Join("bin", binaryName), "."), withStream()); err != nil {
		return err
	}
	return nil
}

// Checks every GLSL file under assets/shaders with glslangValidator.
func (Build) Shaders() error {
	return validateShaders()
}

func validateShaders() error {
	files, err := shaderFiles()
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no shaders found under %s", shaderDir)
	}
	for _, f := range files {
		if _, err := executeCmd("glslangValidator", withArgs(f)); err != nil {
			return err
		}
	}
	fmt.Printf("%d shaders validated\n", len(files))
	return nil
}
