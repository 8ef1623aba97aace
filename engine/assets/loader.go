package assets

import "github.com/spaghettifunk/anima-scenes/engine/renderer/metadata"

// Loader turns one file into a resource. name is the asset name relative to
// the asset root and path the file on disk.
type Loader interface {
	Load(name, path string) (*metadata.Resource, error)
	Unload(*metadata.Resource) error
}
