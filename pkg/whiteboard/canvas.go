// Package whiteboard implements the drawing surface behind whiteboard cells:
// a raster canvas, the drawing tools, and a linear undo/redo history of full
// canvas snapshots.
package whiteboard

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"strings"
)

const dataURLPrefix = "data:image/png;base64,"

// Background is the colour of a blank board
var Background = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// ErrInvalidDataURL is returned when stored whiteboard content cannot be decoded
var ErrInvalidDataURL = errors.New("invalid whiteboard data URL")

// Snapshot is a full copy of the canvas pixels
type Snapshot []byte

// Canvas is a fixed-size RGBA drawing surface
type Canvas struct {
	img *image.RGBA
}

// NewCanvas returns a blank canvas of the given size
func NewCanvas(width, height int) *Canvas {
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	c := &Canvas{img: image.NewRGBA(image.Rect(0, 0, width, height))}
	c.Fill(Background)
	return c
}

// Bounds returns the canvas rectangle
func (c *Canvas) Bounds() image.Rectangle {
	return c.img.Bounds()
}

// Image exposes the surface for read-only use
func (c *Canvas) Image() image.Image {
	return c.img
}

// At returns the colour of a single pixel
func (c *Canvas) At(x, y int) color.RGBA {
	return c.img.RGBAAt(x, y)
}

// Fill paints the whole surface with col
func (c *Canvas) Fill(col color.Color) {
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(col), image.Point{}, draw.Src)
}

// Snapshot copies the current pixels
func (c *Canvas) Snapshot() Snapshot {
	s := make(Snapshot, len(c.img.Pix))
	copy(s, c.img.Pix)
	return s
}

// Restore replaces the pixels with a snapshot taken from this canvas
func (c *Canvas) Restore(s Snapshot) {
	copy(c.img.Pix, s)
}

// DrawImage composites src over the surface at the origin
func (c *Canvas) DrawImage(src image.Image) {
	draw.Draw(c.img, c.img.Bounds(), src, src.Bounds().Min, draw.Over)
}

// EncodePNG writes the surface as a PNG image
func (c *Canvas) EncodePNG(w io.Writer) error {
	return png.Encode(w, c.img)
}

// DataURL encodes the surface the way whiteboard cells store it
func (c *Canvas) DataURL() (string, error) {
	var buf bytes.Buffer
	if err := c.EncodePNG(&buf); err != nil {
		return "", fmt.Errorf("encode png: %w", err)
	}
	return dataURLPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// NormalizeDataURL converts a base64 PNG, JPEG or GIF data URL into the PNG
// data URL whiteboard cells store.
func NormalizeDataURL(s string) (string, error) {
	if strings.HasPrefix(s, dataURLPrefix) {
		if _, err := DecodeDataURL(s); err != nil {
			return "", err
		}
		return s, nil
	}

	header, payload, ok := strings.Cut(s, ",")
	if !ok || !strings.HasPrefix(header, "data:image/") || !strings.HasSuffix(header, ";base64") {
		return "", ErrInvalidDataURL
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode png: %w", err)
	}
	return dataURLPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// DataURLSize reads the dimensions from a PNG data URL's header without
// decoding the pixels.
func DataURLSize(s string) (image.Point, error) {
	if !strings.HasPrefix(s, dataURLPrefix) {
		return image.Point{}, ErrInvalidDataURL
	}
	dec := base64.NewDecoder(base64.StdEncoding, strings.NewReader(strings.TrimPrefix(s, dataURLPrefix)))
	cfg, err := png.DecodeConfig(dec)
	if err != nil {
		return image.Point{}, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}
	return image.Pt(cfg.Width, cfg.Height), nil
}

// DecodeDataURL parses a PNG data URL back into an image
func DecodeDataURL(s string) (image.Image, error) {
	if !strings.HasPrefix(s, dataURLPrefix) {
		return nil, ErrInvalidDataURL
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(s, dataURLPrefix))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}
	return img, nil
}
