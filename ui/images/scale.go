// Package images converts snapshots into Tk-displayable photos.
package images

import (
	"bytes"
	"image"

	"github.com/disintegration/imaging"
)

// EncodePNG encodes an image to PNG bytes. Errors are ignored and may return an empty slice.
func EncodePNG(img image.Image) []byte {
	if img == nil {
		return nil
	}
	var buf bytes.Buffer
	_ = imaging.Encode(&buf, img, imaging.PNG)
	return buf.Bytes()
}

// ScaleToFit scales src so it fits within maxW x maxH preserving aspect ratio.
// If the source already fits, the original is returned.
func ScaleToFit(src image.Image, maxW, maxH int) image.Image {
	if src == nil {
		return nil
	}
	if maxW < 1 {
		maxW = 1
	}
	if maxH < 1 {
		maxH = 1
	}
	b := src.Bounds()
	if b.Dx() <= maxW && b.Dy() <= maxH {
		return src
	}
	return imaging.Fit(src, maxW, maxH, imaging.Box)
}

// Placeholder returns a blank image of the given size.
func Placeholder(w, h int) image.Image {
	return imaging.New(w, h, image.Black.C)
}
