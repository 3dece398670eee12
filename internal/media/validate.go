// Package media validates activity images and uploads them to the object store
package media

import (
	"bytes"
	"fmt"
	"image"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
)

// Stage names where an image failed
const (
	StageValidation = "validation"
	StageNetwork    = "network"
	StageUpload     = "upload"
)

const (
	DefaultMaxBytes = 7 << 20
	DefaultMinWidth = 1280
	MinImages       = 3
	MaxImages       = 5
)

// allowedTypes maps sniffed MIME types to the extension used for stored objects
var allowedTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// File is an image the provider selected
type File struct {
	Name string
	Data []byte
}

// Image is a file that passed validation
type Image struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Ext         string `json:"ext"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Size        int64  `json:"size"`

	data []byte
}

// FileError says which file failed and at which stage
type FileError struct {
	Name    string `json:"name"`
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s (%s): %s", e.Name, e.Stage, e.Message)
}

// Rules are the limits a file must respect
type Rules struct {
	MaxBytes int64
	MinWidth int
}

// DefaultRules returns the extranet limits: 7MB and 1280px wide
func DefaultRules() Rules {
	return Rules{MaxBytes: DefaultMaxBytes, MinWidth: DefaultMinWidth}
}

// Validate checks type, size and width of one file
func (r Rules) Validate(f File) (*Image, *FileError) {
	fail := func(format string, args ...any) (*Image, *FileError) {
		return nil, &FileError{Name: f.Name, Stage: StageValidation, Message: fmt.Sprintf(format, args...)}
	}

	if len(f.Data) == 0 {
		return fail("el archivo está vacío")
	}
	if r.MaxBytes > 0 && int64(len(f.Data)) > r.MaxBytes {
		return fail("el archivo supera el máximo de %d MB", r.MaxBytes>>20)
	}

	mt := mimetype.Detect(f.Data)
	ext, ok := allowedTypes[mt.String()]
	if !ok {
		return fail("formato no permitido (%s); usa jpeg, jpg, png, gif o webp", mt.String())
	}

	width, height, err := dimensions(mt.String(), f.Data)
	if err != nil {
		return fail("no se pudo leer la imagen: %v", err)
	}
	if width < r.MinWidth {
		return fail("la imagen mide %dpx de ancho; el mínimo es %dpx", width, r.MinWidth)
	}

	return &Image{
		Name:        f.Name,
		ContentType: mt.String(),
		Ext:         ext,
		Width:       width,
		Height:      height,
		Size:        int64(len(f.Data)),
		data:        f.Data,
	}, nil
}

// dimensions returns the displayed size; JPEG EXIF orientation is applied so a
// portrait photo shot sideways is measured the way it will be shown
func dimensions(contentType string, data []byte) (int, int, error) {
	if contentType == "image/webp" {
		cfg, err := webp.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return 0, 0, err
		}
		return cfg.Width, cfg.Height, nil
	}

	if contentType != "image/jpeg" {
		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err == nil {
			return cfg.Width, cfg.Height, nil
		}
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return 0, 0, err
	}
	b := img.Bounds()
	return b.Dx(), b.Dy(), nil
}
