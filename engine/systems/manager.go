package systems

import (
	"github.com/spaghettifunk/anima-scenes/engine/renderer"
)

/**
 * @brief Owns the GPU resource systems of the engine. Systems are torn down
 * in reverse order of creation.
 */
type SystemManager struct {
	shaderSystem   *ShaderSystem
	geometrySystem *GeometrySystem
}

func NewSystemManager(backend renderer.Backend, sources SourceLoader) (*SystemManager, error) {
	ssys, err := NewShaderSystem(&ShaderSystemConfig{
		MaxShaderCount: 64,
	}, backend, sources)
	if err != nil {
		return nil, err
	}
	gs, err := NewGeometrySystem(&GeometrySystemConfig{
		MaxGeometryCount: 1000,
	}, backend)
	if err != nil {
		return nil, err
	}
	return &SystemManager{
		shaderSystem:   ssys,
		geometrySystem: gs,
	}, nil
}

func (sm *SystemManager) Shaders() *ShaderSystem {
	return sm.shaderSystem
}

func (sm *SystemManager) Geometry() *GeometrySystem {
	return sm.geometrySystem
}

func (sm *SystemManager) Shutdown() error {
	if err := sm.geometrySystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.shaderSystem.Shutdown(); err != nil {
		return err
	}
	return nil
}
