package imageprep

import (
	"bytes"
	"math"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
)

// Options controls the resize/transcode pass applied to product images
// before upload.
type Options struct {
	// MaxDimension bounds the longer side of the output. Images already
	// within the bound are not upscaled.
	MaxDimension int
	// Quality in (0,1], applied to lossy encoders. Values outside the range
	// fall back to DefaultQuality.
	Quality float64
	// Format is the output encoding: "jpeg" or "png". Unknown values encode
	// as JPEG.
	Format string
}

const (
	DefaultMaxDimension = 2400
	DefaultQuality      = 0.90
)

// DefaultOptions matches the upload pipeline defaults for product images.
func DefaultOptions() Options {
	return Options{MaxDimension: DefaultMaxDimension, Quality: DefaultQuality, Format: "jpeg"}
}

// Prepare decodes raw, scales it down so its longer side is at most
// opts.MaxDimension (never upscaling), and re-encodes it. On any failure it
// returns raw unchanged so the caller can always proceed with the upload.
//
// Prepare makes no size guarantee; callers should upload the smaller of the
// returned bytes and the original.
func Prepare(raw []byte, opts Options) []byte {
	if opts.MaxDimension <= 0 {
		opts.MaxDimension = DefaultMaxDimension
	}
	if opts.Quality <= 0 || opts.Quality > 1 {
		opts.Quality = DefaultQuality
	}

	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		zap.L().Warn("Image decode failed, keeping original upload", zap.Error(err))
		return raw
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return raw
	}

	ratio := math.Min(float64(opts.MaxDimension)/float64(w), float64(opts.MaxDimension)/float64(h))
	if ratio > 1 {
		ratio = 1
	}
	targetW := int(math.Round(float64(w) * ratio))
	targetH := int(math.Round(float64(h) * ratio))

	if ratio < 1 {
		img = imaging.Resize(img, targetW, targetH, imaging.Lanczos)
	}

	format := imaging.JPEG
	if opts.Format == "png" {
		format = imaging.PNG
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format, imaging.JPEGQuality(int(opts.Quality*100))); err != nil {
		zap.L().Warn("Image encode failed, keeping original upload", zap.Error(err))
		return raw
	}
	return buf.Bytes()
}
