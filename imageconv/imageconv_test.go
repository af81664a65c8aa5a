package imageconv

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
)

func samplePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: byte(x * 10), G: byte(y * 10), B: 200, A: 255})
		}
	}
	buf := &bytes.Buffer{}
	assert.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func TestConvertPngToJpeg(t *testing.T) {
	src := samplePNG(t)
	out := &bytes.Buffer{}
	ok := ConvertPngToJpeg(bytes.NewReader(src), out, &JPEGOptions{Quality: 80})
	assert.True(t, ok)
	assert.NotEmpty(t, out.Bytes())
}

func TestConvertPngToWebp(t *testing.T) {
	src := samplePNG(t)
	out := &bytes.Buffer{}
	ok := ConvertPngToWebp(bytes.NewReader(src), out, nil)
	assert.True(t, ok)
	assert.NotEmpty(t, out.Bytes())
}

func TestSelectSmallestPrefersLosslessWhenNoLossyCandidate(t *testing.T) {
	lossless := []byte("0123456789")
	got := SelectSmallest(lossless, nil, 0.8)
	assert.Equal(t, lossless, got)
}

func TestSelectSmallestPrefersLossyWhenSignificantlySmaller(t *testing.T) {
	lossless := bytes.Repeat([]byte{'a'}, 100)
	lossy := bytes.NewBuffer(bytes.Repeat([]byte{'b'}, 70))
	got := SelectSmallest(lossless, lossy, 0.8)
	assert.Equal(t, lossy.Bytes(), got)
}

func TestSelectSmallestKeepsLosslessWhenLossyNotSignificantlySmaller(t *testing.T) {
	lossless := bytes.Repeat([]byte{'a'}, 100)
	lossy := bytes.NewBuffer(bytes.Repeat([]byte{'b'}, 90))
	got := SelectSmallest(lossless, lossy, 0.8)
	assert.Equal(t, lossless, got)
}

func TestOptimizePngOrConvertToJpegWithoutJpegOptionsNeverAttemptsJpeg(t *testing.T) {
	src := samplePNG(t)
	out := &bytes.Buffer{}
	ok := OptimizePngOrConvertToJpeg(bytes.NewReader(src), out, nil, 0.8)
	assert.True(t, ok)

	// Decoding back as PNG must succeed: the lossless branch was
	// selected because jpegOpts was nil, so no JPEG bytes were ever
	// produced or dereferenced.
	_, err := png.Decode(bytes.NewReader(out.Bytes()))
	assert.NoError(t, err)
}

func TestOptimizePngOrConvertToJpegWithJpegOptionsMaySelectJpeg(t *testing.T) {
	src := samplePNG(t)
	out := &bytes.Buffer{}
	ok := OptimizePngOrConvertToJpeg(bytes.NewReader(src), out, &JPEGOptions{Quality: 50}, 0.8)
	assert.True(t, ok)
	assert.NotEmpty(t, out.Bytes())
}
