package pageopt

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aofei/pageopt/filter"
	"github.com/aofei/pageopt/resource"
)

func TestNewUsesDefaultConfigWhenNil(t *testing.T) {
	tk := New(nil)
	assert.Equal(t, "pageopt", tk.Config.AppName)
	assert.True(t, tk.Config.MinifierEnabled)
}

func TestToolkitMinifyDispatchesJavaScriptToJsmin(t *testing.T) {
	tk := New(nil)
	got, err := tk.Minify("text/javascript", []byte("var   x   =   1;"))
	assert.NoError(t, err)
	assert.Equal(t, "var x=1;", string(got))
}

func TestToolkitMinifyDisabledReturnsInputUnchanged(t *testing.T) {
	c := NewConfig()
	c.MinifierEnabled = false
	tk := New(c)
	in := []byte("var   x   =   1;")
	got, err := tk.Minify("text/javascript", in)
	assert.NoError(t, err)
	assert.Equal(t, in, got)
}

func TestToolkitMinifyUnlistedMimeTypeReturnsInputUnchanged(t *testing.T) {
	tk := New(nil)
	in := []byte("plain text")
	got, err := tk.Minify("text/plain", in)
	assert.NoError(t, err)
	assert.Equal(t, in, got)
}

func TestToolkitMinifySniffsEmptyMimeType(t *testing.T) {
	tk := New(nil)
	// A bare PNG signature is enough for mimesniffer.Sniff to report
	// "image/png", a MIME type this toolkit never minifies.
	png := []byte("\x89PNG\r\n\x1a\n")
	got, err := tk.Minify("", png)
	assert.NoError(t, err)
	assert.Equal(t, png, got)
}

func TestToolkitConvertImageToJpegUsesImageCache(t *testing.T) {
	tk := New(nil)
	defer tk.Close()

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: byte(x * 10), G: byte(y * 10), B: 100, A: 255})
		}
	}
	src := &bytes.Buffer{}
	assert.NoError(t, png.Encode(src, img))

	first := &bytes.Buffer{}
	assert.True(t, tk.ConvertImageToJpeg("", bytes.NewReader(src.Bytes()), first, nil))

	second := &bytes.Buffer{}
	assert.True(t, tk.ConvertImageToJpeg("", bytes.NewReader(src.Bytes()), second, nil))

	assert.NotNil(t, tk.imageCache)
	assert.Equal(t, first.Bytes(), second.Bytes())
}

func TestToolkitConvertImageToJpegWithImageCacheDisabledStillWorks(t *testing.T) {
	c := NewConfig()
	c.ImageCacheEnabled = false
	tk := New(c)
	defer tk.Close()

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	src := &bytes.Buffer{}
	assert.NoError(t, png.Encode(src, img))

	out := &bytes.Buffer{}
	assert.True(t, tk.ConvertImageToJpeg("", bytes.NewReader(src.Bytes()), out, nil))
	assert.NotEmpty(t, out.Bytes())
}

func TestToolkitNewCollectionLogsMissingRedirectTargets(t *testing.T) {
	tk := New(nil)

	buf := &bytes.Buffer{}
	tk.Logger.Output = buf

	c := tk.NewCollection(filter.AcceptAll)
	// A redirects to a target that is never added: the registry's
	// graph construction must tolerate it and the Toolkit's logger
	// must record it at Warn — a tolerated condition, not a failure.
	c.Add(resource.NewObservation("http://example.com/a", "example.com", 302, "http://example.com/missing", false, 0))
	c.Freeze()

	assert.Contains(t, buf.String(), "WARN")
	assert.Contains(t, buf.String(), "missing")
}

func TestToolkitNewCollectionLogsFrozenMutations(t *testing.T) {
	tk := New(nil)

	buf := &bytes.Buffer{}
	tk.Logger.Output = buf

	c := tk.NewCollection(nil)
	c.Freeze()
	c.Add(resource.NewObservation("http://example.com/late", "example.com", 200, "", false, 0))

	assert.Contains(t, buf.String(), "ERROR")
	assert.Contains(t, buf.String(), "frozen")
}
