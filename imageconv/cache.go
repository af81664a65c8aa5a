package imageconv

import (
	"bytes"
	"crypto/sha256"
	"io"
	"strconv"
	"sync"

	"github.com/VictoriaMetrics/fastcache"
	"github.com/fsnotify/fsnotify"
)

// Cache memoizes converted image output: a fastcache.Cache holds
// converted bytes keyed by a checksum of the source content plus the
// conversion requested, and an fsnotify.Watcher invalidates a cached
// entry the moment its watched source file changes on disk. Only the
// checksum most recently cached for a source path is tracked, so when
// one file is converted under several kinds, a change to it drops only
// the latest of those entries.
type Cache struct {
	cache   *fastcache.Cache
	watcher *fsnotify.Watcher
	sources sync.Map // sourcePath -> checksum [32]byte cached under it
}

// NewCache returns a new Cache backed by maxBytes of in-memory storage.
func NewCache(maxBytes int) (*Cache, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	c := &Cache{
		cache:   fastcache.New(maxBytes),
		watcher: w,
	}

	go c.watch()

	return c, nil
}

// watch drops the cache entry installed for a watched file on any
// event for it, so the next conversion re-derives fresh output.
func (c *Cache) watch() {
	for {
		select {
		case e, ok := <-c.watcher.Events:
			if !ok {
				return
			}
			if v, loaded := c.sources.LoadAndDelete(e.Name); loaded {
				sum := v.([sha256.Size]byte)
				c.cache.Del(sum[:])
			}
		case _, ok := <-c.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// Close stops the cache's file watcher.
func (c *Cache) Close() error {
	return c.watcher.Close()
}

// cacheKey derives the fastcache key for src under the given
// conversion kind (e.g. "jpeg:q=80"), so that the same source bytes
// requested via two different conversions never collide in the cache.
func cacheKey(kind string, src []byte) [sha256.Size]byte {
	h := sha256.New()
	h.Write([]byte(kind))
	h.Write([]byte{0})
	h.Write(src)
	var sum [sha256.Size]byte
	copy(sum[:], h.Sum(nil))
	return sum
}

// convertCached runs convert over src, memoizing the result under
// src's (kind-scoped) checksum. When sourcePath is non-empty, the
// cache entry is watched so a future on-disk change invalidates it.
func (c *Cache) convertCached(kind, sourcePath string, src []byte, convert func(io.Reader, io.Writer) bool) ([]byte, bool) {
	sum := cacheKey(kind, src)

	if cached := c.cache.Get(nil, sum[:]); len(cached) > 0 {
		return cached, true
	}

	buf := &bytes.Buffer{}
	if !convert(bytes.NewReader(src), buf) {
		return nil, false
	}

	c.cache.Set(sum[:], buf.Bytes())
	if sourcePath != "" {
		if err := c.watcher.Add(sourcePath); err == nil {
			c.sources.Store(sourcePath, sum)
		}
	}

	return buf.Bytes(), true
}

// ConvertPngToJpegCached is ConvertPngToJpeg, memoized by c. sourcePath,
// when non-empty, is watched so a future on-disk change invalidates
// the cached result.
func (c *Cache) ConvertPngToJpegCached(sourcePath string, r io.Reader, w io.Writer, opts *JPEGOptions) bool {
	src, err := io.ReadAll(r)
	if err != nil {
		return false
	}

	quality := -1
	if opts != nil {
		quality = opts.Quality
	}

	out, ok := c.convertCached(jpegCacheKind(quality), sourcePath, src, func(r io.Reader, w io.Writer) bool {
		return ConvertPngToJpeg(r, w, opts)
	})
	if !ok {
		return false
	}

	_, err = w.Write(out)
	return err == nil
}

// ConvertPngToWebpCached is ConvertPngToWebp, memoized by c.
func (c *Cache) ConvertPngToWebpCached(sourcePath string, r io.Reader, w io.Writer, opts *WebpOptions) bool {
	src, err := io.ReadAll(r)
	if err != nil {
		return false
	}

	lossless, quality := true, float32(0)
	if opts != nil {
		lossless, quality = opts.Lossless, opts.Quality
	}

	out, ok := c.convertCached(webpCacheKind(lossless, quality), sourcePath, src, func(r io.Reader, w io.Writer) bool {
		return ConvertPngToWebp(r, w, opts)
	})
	if !ok {
		return false
	}

	_, err = w.Write(out)
	return err == nil
}

func jpegCacheKind(quality int) string {
	return "jpeg:q=" + strconv.Itoa(quality)
}

func webpCacheKind(lossless bool, quality float32) string {
	if lossless {
		return "webp:lossless"
	}
	return "webp:lossy:q=" + strconv.Itoa(int(quality*1000))
}
