package gui

import (
	"fmt"
	"image"
	"image/png"
	"io"

	"golang.org/x/image/draw"
)

// SaveScreenshot scales the image to the display size and writes it as a PNG
func SaveScreenshot(w io.Writer, img *image.RGBA) error {
	if img == nil {
		return fmt.Errorf("screenshot: no image")
	}

	dst := image.NewRGBA(image.Rect(0, 0, DisplayWidth, DisplayHeight))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)

	err := png.Encode(w, dst)
	if err != nil {
		return fmt.Errorf("screenshot: %w", err)
	}
	return nil
}
