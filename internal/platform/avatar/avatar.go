// Package avatar normalises uploaded profile pictures into fixed-size PNGs.
package avatar

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/disintegration/imaging"
)

const (
	// MaxBytes is the largest upload accepted, in bytes.
	MaxBytes = 1_000_000
	// Size is the width and height of every stored avatar.
	Size = 250
	// ContentType of stored avatars.
	ContentType = "image/png"
)

// allowedSuffixes are matched case-sensitively against the upload's filename.
var allowedSuffixes = []string{".jpg", ".jpeg", ".png"}

// Upload errors. Their messages are safe to show to clients.
var (
	ErrUnsupportedType = errors.New("please upload an image with jpg, jpeg or png extension")
	ErrTooLarge        = errors.New("file too large")
	ErrInvalidImage    = errors.New("invalid image")
	ErrMissingFile     = errors.New("please upload an image")
)

// Processor validates and normalises avatar uploads.
type Processor struct{}

// NewProcessor returns a Processor.
func NewProcessor() *Processor {
	return &Processor{}
}

// ValidateFilename reports ErrUnsupportedType unless name ends in one of
// .jpg, .jpeg or .png. The check is case-sensitive.
func ValidateFilename(name string) error {
	for _, suffix := range allowedSuffixes {
		if strings.HasSuffix(name, suffix) {
			return nil
		}
	}
	return ErrUnsupportedType
}

// Process checks the upload's name and size, then decodes it, crops it to
// a centred Size x Size square and re-encodes it as PNG. Filename and size
// are checked before any decoding.
func (p *Processor) Process(filename string, data []byte) ([]byte, error) {
	if err := ValidateFilename(filename); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrMissingFile
	}
	if len(data) > MaxBytes {
		return nil, ErrTooLarge
	}
	return Normalize(data)
}

// Normalize decodes data and returns a Size x Size PNG.
func Normalize(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	squared := imaging.Fill(img, Size, Size, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, squared, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode avatar: %w", err)
	}
	return buf.Bytes(), nil
}
