package loaders

import (
	"fmt"
	"os"

	"github.com/spaghettifunk/anima-scenes/engine/renderer/metadata"
)

// ShaderLoader reads a GLSL stage source. Data is the source as a string.
type ShaderLoader struct{}

func (sl *ShaderLoader) Load(name, path string) (*metadata.Resource, error) {
	source, err := LoadShaderSource(path)
	if err != nil {
		return nil, err
	}
	return &metadata.Resource{
		Name:     name,
		FullPath: path,
		Type:     metadata.ResourceTypeShader,
		DataSize: uint64(len(source)),
		Data:     source,
	}, nil
}

func (sl *ShaderLoader) Unload(res *metadata.Resource) error {
	res.Data = nil
	res.DataSize = 0
	return nil
}

// LoadShaderSource reads a whole shader file. An empty file is an error;
// the driver would accept it and fail later with a less useful message.
func LoadShaderSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("could not read shader %s: %w", path, err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("shader %s is empty", path)
	}
	return string(data), nil
}
