// Package imageconv implements the image transcoding collaborator the
// toolkit exposes to callers without depending on it itself:
// PNG/JPEG/WebP conversion plus picking the smallest of a set of
// candidates.
package imageconv

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/chai2010/webp"
	xwebp "golang.org/x/image/webp"
)

// ScanlineReader is a pull-based capability pair over an image's rows:
// HasMoreScanLines is checked before every ReadNextScanline call, so
// consumers iterate without relying on an io.Reader's EOF convention.
type ScanlineReader interface {
	// HasMoreScanLines reports whether another scanline is available.
	HasMoreScanLines() bool

	// ReadNextScanline returns the next scanline's raw pixel bytes.
	ReadNextScanline() ([]byte, error)
}

// ScanlineWriter is the push-based mirror of ScanlineReader. Exactly
// one of FinalizeWrite or AbortWrite must be called once writing is
// done; FinalizeWrite commits the output, AbortWrite discards
// whatever scanlines were already pushed so a caller never observes a
// partially written result.
type ScanlineWriter interface {
	// WriteNextScanline pushes one scanline's raw pixel bytes.
	WriteNextScanline(b []byte) error

	// FinalizeWrite commits the written scanlines.
	FinalizeWrite() error

	// AbortWrite discards the written scanlines.
	AbortWrite()
}

// imageScanlineReader adapts a decoded image.Image to ScanlineReader,
// one row at a time, as non-premultiplied RGBA bytes (8 bits per
// channel), the layout drainScanlines stores into an image.NRGBA.
type imageScanlineReader struct {
	img  image.Image
	y    int
	minY int
	maxY int
	minX int
	maxX int
}

// NewImageScanlineReader wraps img for row-by-row pull access.
func NewImageScanlineReader(img image.Image) ScanlineReader {
	b := img.Bounds()
	return &imageScanlineReader{
		img:  img,
		y:    b.Min.Y,
		minY: b.Min.Y,
		maxY: b.Max.Y,
		minX: b.Min.X,
		maxX: b.Max.X,
	}
}

func (r *imageScanlineReader) HasMoreScanLines() bool {
	return r.y < r.maxY
}

func (r *imageScanlineReader) ReadNextScanline() ([]byte, error) {
	row := make([]byte, 0, (r.maxX-r.minX)*4)
	for x := r.minX; x < r.maxX; x++ {
		c := color.NRGBAModel.Convert(r.img.At(x, r.y)).(color.NRGBA)
		row = append(row, c.R, c.G, c.B, c.A)
	}
	r.y++
	return row, nil
}

// bufScanlineWriter is a ScanlineWriter that accumulates scanlines into
// a buffer, only flushing them to the underlying io.Writer on
// FinalizeWrite. Nothing reaches w until then, so an aborted or
// half-written conversion is never observable downstream.
type bufScanlineWriter struct {
	w       io.Writer
	buf     bytes.Buffer
	aborted bool
}

// NewBufScanlineWriter returns a ScanlineWriter that writes to w only
// once FinalizeWrite is called.
func NewBufScanlineWriter(w io.Writer) ScanlineWriter {
	return &bufScanlineWriter{w: w}
}

func (sw *bufScanlineWriter) WriteNextScanline(b []byte) error {
	if sw.aborted {
		return nil
	}
	_, err := sw.buf.Write(b)
	return err
}

func (sw *bufScanlineWriter) FinalizeWrite() error {
	if sw.aborted {
		return nil
	}
	_, err := sw.w.Write(sw.buf.Bytes())
	return err
}

func (sw *bufScanlineWriter) AbortWrite() {
	sw.aborted = true
	sw.buf.Reset()
}

// JPEGOptions mirrors image/jpeg.Options; kept as a distinct type so
// that callers of OptimizePngOrConvertToJpeg can pass a nil pointer to
// mean "no JPEG candidate should be attempted": that function only
// converts to JPEG, and only dereferences the pointer, when options
// are provided. ConvertPngToJpeg instead treats nil as image/jpeg's
// defaults.
type JPEGOptions struct {
	Quality int
}

// WebpOptions configures WebP encoding.
type WebpOptions struct {
	Lossless bool
	Quality  float32
}

// ConvertImage decodes whatever image format r holds (auto-detected by
// the standard library's image.Decode), pulls it row-by-row through a
// ScanlineReader, and re-encodes the reassembled image via encode,
// writing the scanline-finalized result to w. It reports whether the
// conversion succeeded.
func ConvertImage(r io.Reader, w io.Writer, encode func(io.Writer, image.Image) error) bool {
	src, _, err := image.Decode(r)
	if err != nil {
		return false
	}

	img, err := drainScanlines(src)
	if err != nil {
		return false
	}

	sw := NewBufScanlineWriter(w)
	buf := &bytes.Buffer{}
	if err := encode(buf, img); err != nil {
		sw.AbortWrite()
		return false
	}
	if err := sw.WriteNextScanline(buf.Bytes()); err != nil {
		sw.AbortWrite()
		return false
	}
	return sw.FinalizeWrite() == nil
}

// drainScanlines pulls src through a ScanlineReader one row at a time
// and reassembles it into a fresh image.NRGBA, so every conversion
// below passes its decoded source through the same pull-based
// collaborator instead of handing the decoder's image.Image straight
// to the encoder.
func drainScanlines(src image.Image) (image.Image, error) {
	b := src.Bounds()
	dst := image.NewNRGBA(b)

	sr := NewImageScanlineReader(src)
	for y := b.Min.Y; sr.HasMoreScanLines(); y++ {
		row, err := sr.ReadNextScanline()
		if err != nil {
			return nil, err
		}
		for i, x := 0, b.Min.X; x < b.Max.X; i, x = i+4, x+1 {
			dst.SetNRGBA(x, y, color.NRGBA{R: row[i], G: row[i+1], B: row[i+2], A: row[i+3]})
		}
	}

	return dst, nil
}

// ConvertPngToJpeg decodes a PNG from r and writes a JPEG to w using
// opts (nil selects image/jpeg's defaults).
func ConvertPngToJpeg(r io.Reader, w io.Writer, opts *JPEGOptions) bool {
	return ConvertImage(r, w, func(w io.Writer, img image.Image) error {
		var jo *jpeg.Options
		if opts != nil {
			jo = &jpeg.Options{Quality: opts.Quality}
		}
		return jpeg.Encode(w, img, jo)
	})
}

// ConvertPngToWebp decodes a PNG from r and writes a WebP to w using
// opts (nil selects lossless-default encoding).
func ConvertPngToWebp(r io.Reader, w io.Writer, opts *WebpOptions) bool {
	return ConvertImage(r, w, func(w io.Writer, img image.Image) error {
		wo := &webp.Options{Lossless: true}
		if opts != nil {
			wo.Lossless = opts.Lossless
			wo.Quality = opts.Quality
		}
		return webp.Encode(w, img, wo)
	})
}

// DecodeWebp decodes a WebP image from r, using golang.org/x/image/webp
// (the only WebP decoder already present in the retrieved example
// pack; see DESIGN.md for why encoding still goes through the
// chai2010/webp cgo binding instead). Nothing else in this package
// calls it: SelectSmallest compares encoded byte sizes only.
func DecodeWebp(r io.Reader) (image.Image, error) {
	return xwebp.Decode(r)
}

// OptimizePngOrConvertToJpeg re-encodes a PNG losslessly at best
// compression (pixels pass through an 8-bit-per-channel image.NRGBA,
// so samples of a 16-bit PNG are reduced to 8 bits) and, only when
// jpegOpts is non-nil, additionally tries a
// JPEG conversion, returning whichever SelectSmallest picks. When
// jpegOpts is nil the JPEG branch is skipped entirely, not merely
// guarded after the fact.
func OptimizePngOrConvertToJpeg(r io.Reader, w io.Writer, jpegOpts *JPEGOptions, lossyThreshold float64) bool {
	src, err := io.ReadAll(r)
	if err != nil {
		return false
	}

	losslessBuf := &bytes.Buffer{}
	if !ConvertImage(bytes.NewReader(src), losslessBuf, func(w io.Writer, img image.Image) error {
		return (&png.Encoder{CompressionLevel: png.BestCompression}).Encode(w, img)
	}) {
		return false
	}

	var lossyBuf *bytes.Buffer
	if jpegOpts != nil {
		lossyBuf = &bytes.Buffer{}
		if !ConvertPngToJpeg(bytes.NewReader(src), lossyBuf, jpegOpts) {
			lossyBuf = nil
		}
	}

	best := SelectSmallest(losslessBuf.Bytes(), lossyBuf, lossyThreshold)
	_, err = w.Write(best)
	return err == nil
}

// SelectSmallest picks between a lossless candidate and an optional
// lossy candidate, preferring the lossy one only when it is at least
// (1-threshold) smaller (threshold 0.8 means the lossy candidate must
// be no more than 80% of the lossless candidate's size). lossy may be
// nil, in which case lossless is always returned: the lossy candidate
// is only ever consulted when it is present.
func SelectSmallest(lossless []byte, lossy *bytes.Buffer, threshold float64) []byte {
	if lossy == nil || lossy.Len() == 0 {
		return lossless
	}
	if float64(lossy.Len()) <= float64(len(lossless))*threshold {
		return lossy.Bytes()
	}
	return lossless
}
