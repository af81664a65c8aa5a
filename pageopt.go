/*
Package pageopt implements the core of a web-page optimization toolkit.

It ships two independent subsystems:

Minifier

A heuristic JavaScript minifier (package jsmin) that strips whitespace
and comments from a byte stream without altering program semantics. It
is wrapped by a facade that dispatches by MIME type, with
HTML/CSS/JSON/XML/SVG handled by tdewolff/minify, so a single call
site can minify any static asset before serving it.

Redirect resolver

A directed-graph builder and chain extractor (package resource) that,
given a collection of observed HTTP resources, recovers the ordered
chains of HTTP redirects on the page and identifies the landing page's
chain even when intermediate hops were never observed directly,
reconciling against a request-ordered view of the same resources.

Both subsystems are single-threaded and cooperative: no component
performs I/O or blocks, and every operation runs to completion on the
caller's goroutine.
*/
package pageopt

import (
	"io"
	"sync"

	"github.com/aofei/pageopt/filter"
	"github.com/aofei/pageopt/imageconv"
	"github.com/aofei/pageopt/resource"
)

// Toolkit is the top-level value of this module.
//
// It is highly recommended not to modify the value of any field of the
// Toolkit after constructing a resource.Collection from it, which will
// cause unpredictable problems.
//
// The new instances of the Toolkit should only be created by calling
// New.
type Toolkit struct {
	Config *Config
	Logger *Logger

	once       sync.Once
	minifier   *minifier
	imageCache *imageconv.Cache
}

// New returns a new instance of the Toolkit with the given config. A
// nil config is replaced by NewConfig's defaults.
func New(config *Config) *Toolkit {
	if config == nil {
		config = NewConfig()
	}

	t := &Toolkit{
		Config: config,
	}
	t.Logger = newLogger(t)
	t.minifier = newMinifier(t)

	return t
}

// Minify minifies b according to mimeType, dispatching JavaScript to
// the jsmin package and everything else to the tdewolff/minify
// minifiers. An empty mimeType is sniffed from b via
// mimesniffer. It returns b unchanged if Config.MinifierEnabled is
// false or the (possibly sniffed) mimeType is not in
// Config.MinifierMIMETypes.
func (t *Toolkit) Minify(mimeType string, b []byte) ([]byte, error) {
	return t.minifier.minify(mimeType, b)
}

// imageCacheInstance lazily starts the Toolkit's imageconv.Cache on
// first use. It returns nil when Config.ImageCacheEnabled is false or
// the cache's file watcher failed to start.
func (t *Toolkit) imageCacheInstance() *imageconv.Cache {
	if !t.Config.ImageCacheEnabled {
		return nil
	}

	t.once.Do(func() {
		c, err := imageconv.NewCache(t.Config.ImageCacheMaxBytes)
		if err != nil {
			t.Logger.Errorj(map[string]interface{}{
				"message": "pageopt: failed to start image cache",
				"error":   err.Error(),
			})
			return
		}
		t.imageCache = c
	})

	return t.imageCache
}

// ConvertImageToJpeg decodes a PNG from r and writes a JPEG to w,
// delegating to the imageconv collaborator. opts may be
// nil to select image/jpeg's defaults. sourcePath, when non-empty,
// identifies the PNG's on-disk origin so a result already cached for
// it can be reused, and so the cached entry is dropped the moment that
// file changes; pass "" to skip caching.
func (t *Toolkit) ConvertImageToJpeg(sourcePath string, r io.Reader, w io.Writer, opts *imageconv.JPEGOptions) bool {
	if c := t.imageCacheInstance(); c != nil {
		return c.ConvertPngToJpegCached(sourcePath, r, w, opts)
	}
	return imageconv.ConvertPngToJpeg(r, w, opts)
}

// ConvertImageToWebp decodes a PNG from r and writes a WebP to w. See
// ConvertImageToJpeg for sourcePath's role in result caching.
func (t *Toolkit) ConvertImageToWebp(sourcePath string, r io.Reader, w io.Writer, opts *imageconv.WebpOptions) bool {
	if c := t.imageCacheInstance(); c != nil {
		return c.ConvertPngToWebpCached(sourcePath, r, w, opts)
	}
	return imageconv.ConvertPngToWebp(r, w, opts)
}

// OptimizeImage re-encodes a PNG losslessly and, when jpegOpts is
// non-nil, also considers a JPEG conversion, writing whichever
// candidate imageconv.SelectSmallest picks to w. The lossy/lossless
// size ratio is taken from Config.ImageLossyThreshold. OptimizeImage
// always re-derives its result: SelectSmallest compares two candidates
// that the single-result imageconv.Cache has no way to hold at once,
// so caching here is left to the caller.
func (t *Toolkit) OptimizeImage(r io.Reader, w io.Writer, jpegOpts *imageconv.JPEGOptions) bool {
	return imageconv.OptimizePngOrConvertToJpeg(r, w, jpegOpts, t.Config.ImageLossyThreshold)
}

// Close releases resources held by t, including the file watcher
// backing its imageconv.Cache, if one was started.
func (t *Toolkit) Close() error {
	if t.imageCache != nil {
		return t.imageCache.Close()
	}
	return nil
}

// NewCollection returns a new, empty resource.Collection wired to this
// Toolkit: missing redirect targets encountered while the collection's
// registry builds its chains are logged at Warn rather than
// propagated, since that condition is
// tolerated, not a failure. Mutating calls arriving after Freeze are
// logged at Error: they are programming errors, reported loudly while
// still being no-ops. When Config.FilterEnabled is true and a
// non-nil accepter is given, every Add is additionally checked against
// it; otherwise every resource is accepted.
func (t *Toolkit) NewCollection(accepter filter.Accepter) *resource.Collection {
	opts := []resource.Option{
		resource.WithMissingTargetHandler(func(targetURL string) {
			t.Logger.Warnj(map[string]interface{}{
				"message":    "pageopt: redirect target missing from collection",
				"target_url": targetURL,
			})
		}),
		resource.WithFrozenMutationHandler(func(op string) {
			t.Logger.Errorj(map[string]interface{}{
				"message":   "pageopt: mutation of a frozen collection",
				"operation": op,
			})
		}),
	}
	if t.Config.FilterEnabled && accepter != nil {
		opts = append(opts, resource.WithFilter(accepter))
	}
	return resource.NewCollection(opts...)
}
