package assets

import (
	"github.com/gekko3d/orrery/orreryrt/rt/core"
)

// Library keeps decoded images by AssetId so bodies sharing a texture file
// share one GPU texture.
type Library struct {
	images map[core.AssetId]*Image
	byPath map[string]core.AssetId
	load   func(path string, sampler SamplerOptions) (*Image, error)
}

func NewLibrary() *Library {
	return &Library{
		images: make(map[core.AssetId]*Image),
		byPath: make(map[string]core.AssetId),
		load:   LoadImage,
	}
}

// Load returns the existing id for path or decodes it. The sampler options
// of the first load win.
func (l *Library) Load(path string, sampler SamplerOptions) (core.AssetId, error) {
	if id, ok := l.byPath[path]; ok {
		return id, nil
	}
	img, err := l.load(path, sampler)
	if err != nil {
		return "", err
	}
	return l.Add(path, img), nil
}

// Add registers an already decoded image under a fresh id.
func (l *Library) Add(path string, img *Image) core.AssetId {
	id := core.NewAssetId()
	l.images[id] = img
	if path != "" {
		l.byPath[path] = id
	}
	return id
}

func (l *Library) Image(id core.AssetId) (*Image, bool) {
	img, ok := l.images[id]
	return img, ok
}

func (l *Library) Ids() []core.AssetId {
	ids := make([]core.AssetId, 0, len(l.images))
	for id := range l.images {
		ids = append(ids, id)
	}
	return ids
}

// Forget drops the CPU copy once the GPU owns the pixels.
func (l *Library) Forget(id core.AssetId) {
	delete(l.images, id)
	for path, pid := range l.byPath {
		if pid == id {
			delete(l.byPath, path)
		}
	}
}

func (l *Library) Len() int {
	return len(l.images)
}
