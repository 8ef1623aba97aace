package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/spaghettifunk/anima-scenes/engine/assets/loaders"
	"github.com/spaghettifunk/anima-scenes/engine/core"
	"github.com/spaghettifunk/anima-scenes/engine/renderer/metadata"
)

type AssetInfo struct {
	ID uuid.UUID
	// Name relative to the asset root, with forward slashes.
	Name       string
	Path       string
	Type       metadata.ResourceType
	LastLoaded time.Time
}

// ChangeHandler is called on the render thread for every asset that was
// created or modified since the previous ProcessChanges.
type ChangeHandler func(info AssetInfo)

/**
 * @brief Indexes the files under an asset root, loads them through the
 * registered loaders and optionally watches the tree for edits.
 *
 * The watcher runs on its own goroutine and only records which files
 * changed. Handlers are invoked from ProcessChanges, on the caller's
 * goroutine, so they may touch GPU state.
 */
type AssetManager struct {
	root    string
	assets  map[string]AssetInfo
	loaders map[metadata.ResourceType]Loader

	mutex sync.RWMutex

	pending  map[string]struct{}
	handlers []ChangeHandler

	fsnotify *fsnotify.Watcher
	done     chan struct{}
	wg       sync.WaitGroup
	isClosed bool
}

func NewAssetManager() *AssetManager {
	return &AssetManager{
		assets:  make(map[string]AssetInfo),
		loaders: make(map[metadata.ResourceType]Loader),
		pending: make(map[string]struct{}),
	}
}

// Initialize indexes every file under root and registers the built-in
// loaders. With watch set, edits below root are reported through
// ProcessChanges.
func (am *AssetManager) Initialize(root string, watch bool) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("asset root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("asset root %s is not a directory", abs)
	}
	am.root = abs

	// Register loaders
	am.RegisterLoader(metadata.ResourceTypeShader, &loaders.ShaderLoader{})
	am.RegisterLoader(metadata.ResourceTypeMesh, &loaders.OBJLoader{})

	if watch {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			return err
		}
		am.fsnotify = w
		am.done = make(chan struct{})
	}

	if err := am.watchRecursive(am.root); err != nil {
		am.Shutdown()
		return err
	}

	if am.fsnotify != nil {
		am.wg.Add(1)
		go am.start()
	}
	core.LogInfo("Asset manager indexed %d files under %s", am.Count(), am.root)
	return nil
}

// Register loaders for each asset type
func (am *AssetManager) RegisterLoader(assetType metadata.ResourceType, loader Loader) {
	am.mutex.Lock()
	defer am.mutex.Unlock()
	am.loaders[assetType] = loader
}

// Count returns the number of indexed assets.
func (am *AssetManager) Count() int {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	return len(am.assets)
}

// Lookup returns the index entry of an asset.
func (am *AssetManager) Lookup(name string) (AssetInfo, bool) {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	info, ok := am.assets[filepath.ToSlash(name)]
	return info, ok
}

// Names returns the indexed asset names in sorted order.
func (am *AssetManager) Names() []string {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	out := make([]string, 0, len(am.assets))
	for name := range am.assets {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Load reads an asset by name using the loader registered for its type.
func (am *AssetManager) Load(name string) (*metadata.Resource, error) {
	name = filepath.ToSlash(name)

	am.mutex.Lock()
	asset, exists := am.assets[name]
	if exists {
		// Load or reload asset from disk if necessary
		asset.LastLoaded = time.Now()
		am.assets[name] = asset
	}
	loader, loaderExists := am.loaders[asset.Type]
	am.mutex.Unlock()

	if !exists {
		return nil, fmt.Errorf("asset not found: %s: %w", name, os.ErrNotExist)
	}
	if !loaderExists {
		return nil, fmt.Errorf("no loader registered for asset type: %s", asset.Type)
	}

	res, err := loader.Load(asset.Name, asset.Path)
	if err != nil {
		return nil, err
	}
	res.ID = asset.ID
	return res, nil
}

// LoadShaderSource loads a shader asset and returns its text.
func (am *AssetManager) LoadShaderSource(name string) (string, error) {
	res, err := am.Load(name)
	if err != nil {
		return "", err
	}
	src, ok := res.Data.(string)
	if !ok {
		return "", fmt.Errorf("asset %s is a %s, not a shader", name, res.Type)
	}
	return src, nil
}

// LoadMesh loads a mesh asset.
func (am *AssetManager) LoadMesh(name string) (*metadata.Mesh, error) {
	res, err := am.Load(name)
	if err != nil {
		return nil, err
	}
	mesh, ok := res.Data.(*metadata.Mesh)
	if !ok {
		return nil, fmt.Errorf("asset %s is a %s, not a mesh", name, res.Type)
	}
	return mesh, nil
}

func (am *AssetManager) UnloadAsset(asset *metadata.Resource) error {
	am.mutex.RLock()
	loader, ok := am.loaders[asset.Type]
	am.mutex.RUnlock()
	if !ok {
		return nil
	}
	return loader.Unload(asset)
}

// OnChange registers a handler for asset edits. Must be called from the
// goroutine that calls ProcessChanges.
func (am *AssetManager) OnChange(handler ChangeHandler) {
	am.handlers = append(am.handlers, handler)
}

// ProcessChanges dispatches the edits recorded since the last call and
// returns how many assets changed.
func (am *AssetManager) ProcessChanges() int {
	am.mutex.Lock()
	if len(am.pending) == 0 {
		am.mutex.Unlock()
		return 0
	}
	changed := make([]AssetInfo, 0, len(am.pending))
	for name := range am.pending {
		if info, ok := am.assets[name]; ok {
			changed = append(changed, info)
		}
	}
	am.pending = make(map[string]struct{})
	am.mutex.Unlock()

	sort.Slice(changed, func(i, j int) bool { return changed[i].Name < changed[j].Name })
	for _, info := range changed {
		core.LogDebug("asset changed: %s", info.Name)
		for _, h := range am.handlers {
			h(info)
		}
	}
	return len(changed)
}

// Shutdown stops the watcher, if any. It is safe to call more than once.
func (am *AssetManager) Shutdown() error {
	am.mutex.Lock()
	if am.isClosed || am.fsnotify == nil {
		am.isClosed = true
		am.mutex.Unlock()
		return nil
	}
	am.isClosed = true
	am.mutex.Unlock()

	close(am.done)
	am.wg.Wait()
	return am.fsnotify.Close()
}

func (am *AssetManager) start() {
	defer am.wg.Done()
	for {
		select {
		case e, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			am.handleWatchEvent(e)

		case err, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("asset watcher: %s", err)

		case <-am.done:
			return
		}
	}
}

func (am *AssetManager) handleWatchEvent(e fsnotify.Event) {
	s, err := os.Stat(e.Name)
	if err == nil && s.IsDir() {
		if e.Has(fsnotify.Create) {
			if err := am.watchRecursive(e.Name); err != nil {
				core.LogWarn("could not watch %s: %s", e.Name, err)
			}
		}
		return
	}
	// Handle create or modify events
	if err == nil && (e.Has(fsnotify.Create) || e.Has(fsnotify.Write)) {
		if name, ok := am.handleFileEvent(e.Name); ok {
			am.mutex.Lock()
			am.pending[name] = struct{}{}
			am.mutex.Unlock()
		}
		return
	}
	// Can't stat a deleted file, so drop it from the index.
	if e.Has(fsnotify.Remove) || e.Has(fsnotify.Rename) {
		am.removeAsset(e.Name)
	}
}

// watchRecursive indexes every file under path and, when watching, adds
// each directory to the watch list.
func (am *AssetManager) watchRecursive(path string) error {
	return filepath.WalkDir(path, func(walkPath string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if am.fsnotify != nil {
				return am.fsnotify.Add(walkPath)
			}
			return nil
		}
		am.handleFileEvent(walkPath)
		return nil
	})
}

func (am *AssetManager) relativeName(path string) (string, bool) {
	rel, err := filepath.Rel(am.root, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// Handle the creation or modification of a file. The asset keeps its ID
// across edits.
func (am *AssetManager) handleFileEvent(path string) (string, bool) {
	assetType := determineAssetType(path)
	if assetType == metadata.ResourceTypeNone {
		return "", false
	}
	name, ok := am.relativeName(path)
	if !ok {
		return "", false
	}

	am.mutex.Lock()
	defer am.mutex.Unlock()
	info, exists := am.assets[name]
	if !exists {
		info = AssetInfo{
			ID:   uuid.New(),
			Name: name,
			Path: path,
			Type: assetType,
		}
	}
	am.assets[name] = info
	return name, true
}

// Remove the asset from the index if it was deleted
func (am *AssetManager) removeAsset(path string) {
	name, ok := am.relativeName(path)
	if !ok {
		return
	}
	am.mutex.Lock()
	defer am.mutex.Unlock()
	delete(am.assets, name)
	delete(am.pending, name)
}

func determineAssetType(path string) metadata.ResourceType {
	switch filepath.Ext(path) {
	case ".glsl", ".vert", ".frag":
		return metadata.ResourceTypeShader
	case ".obj":
		return metadata.ResourceTypeMesh
	default:
		return metadata.ResourceTypeNone
	}
}
