package imaging

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"path/filepath"
	"sync"
)

// ImageCache keeps decoded images in memory so repeated contour calls on the
// same file skip disk reads and decoding.
//
// Entries are keyed by the cleaned absolute path, so "a.png" and "./a.png"
// share one entry. ImageCache is safe for concurrent use; the batch tool
// loads several files at once through it.
//
// Cached images must be treated as read-only. Preprocessing always works on
// copies.
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]cachedImage
}

type cachedImage struct {
	img    image.Image
	format string
	size   int64
}

// NewImageCache returns an empty cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]cachedImage),
	}
}

// Load returns the decoded image at path, reading it from disk on first use.
//
// Supported formats are PNG, JPEG and GIF. Errors wrap the underlying open or
// decode failure.
func (c *ImageCache) Load(path string) (image.Image, error) {
	entry, err := c.load(path)
	if err != nil {
		return nil, err
	}
	return entry.img, nil
}

func (c *ImageCache) load(path string) (cachedImage, error) {
	key, err := cacheKey(path)
	if err != nil {
		return cachedImage{}, err
	}

	c.mu.RLock()
	entry, ok := c.images[key]
	c.mu.RUnlock()
	if ok {
		return entry, nil
	}

	f, err := os.Open(key)
	if err != nil {
		return cachedImage{}, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return cachedImage{}, fmt.Errorf("failed to stat image: %w", err)
	}

	img, format, err := image.Decode(f)
	if err != nil {
		return cachedImage{}, fmt.Errorf("failed to decode image: %w", err)
	}

	entry = cachedImage{img: img, format: format, size: stat.Size()}
	c.mu.Lock()
	c.images[key] = entry
	c.mu.Unlock()

	return entry, nil
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// Evict drops the entry for path, if any.
func (c *ImageCache) Evict(path string) {
	key, err := cacheKey(path)
	if err != nil {
		return
	}
	c.mu.Lock()
	delete(c.images, key)
	c.mu.Unlock()
}

// Clear drops every entry.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]cachedImage)
	c.mu.Unlock()
}

func cacheKey(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path %q: %w", path, err)
	}
	return filepath.Clean(abs), nil
}

// ImageInfo describes a loaded image.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the decoder that read the file: "png", "jpeg" or "gif".
	Format string `json:"format"`

	// Grayscale is true when the image already has a single gray channel,
	// in which case contour tracing uses its samples unchanged.
	Grayscale bool `json:"grayscale"`

	// HasAlpha indicates whether the image has an alpha channel.
	HasAlpha bool `json:"has_alpha"`

	// FileSizeBytes is the size of the file on disk.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads path through cache and describes it.
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	entry, err := cache.load(path)
	if err != nil {
		return nil, err
	}

	bounds := entry.img.Bounds()
	info := &ImageInfo{
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Format:        entry.format,
		FileSizeBytes: entry.size,
	}

	switch entry.img.(type) {
	case *image.Gray, *image.Gray16:
		info.Grayscale = true
	case *image.RGBA, *image.NRGBA, *image.RGBA64, *image.NRGBA64, *image.Paletted:
		info.HasAlpha = true
	}

	return info, nil
}

// DimensionsResult contains the width and height of an image.
type DimensionsResult struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// GetDimensions returns only the size of the image at path.
func GetDimensions(cache *ImageCache, path string) (*DimensionsResult, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	return &DimensionsResult{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}
