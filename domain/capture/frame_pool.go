package capture

import (
	"image"
	"sync"
)

// Reusable frame pool for snapshot buffers. Snapshot sources usually hand back
// a freshly allocated *image.RGBA (or one they intend to reuse for the next
// grab); the pipeline copies it into a pooled buffer on the surface goroutine
// and recycles that buffer once the JPEG has been encoded. Captures are rate
// limited so the pool rarely holds more than one or two frames.

var framePool sync.Pool // stores *image.RGBA

// acquireFrame returns a reusable RGBA image sized to rect. The returned Pix
// length exactly matches rect area * 4, and Stride is width*4.
func acquireFrame(rect image.Rectangle) *image.RGBA {
	w, h := rect.Dx(), rect.Dy()
	if w <= 0 || h <= 0 {
		return &image.RGBA{Rect: rect}
	}
	needed := w * h * 4
	var img *image.RGBA
	if v := framePool.Get(); v != nil {
		img = v.(*image.RGBA)
	}
	if img == nil || cap(img.Pix) < needed {
		img = &image.RGBA{Pix: make([]byte, needed), Stride: w * 4, Rect: rect}
	} else {
		img.Stride = w * 4
		img.Rect = rect
		img.Pix = img.Pix[:needed]
	}
	return img
}

// copyFrame copies src row by row into a pooled frame with the same bounds.
func copyFrame(src *image.RGBA) *image.RGBA {
	dst := acquireFrame(src.Rect)
	rowLen := src.Rect.Dx() * 4
	for y := 0; y < src.Rect.Dy(); y++ {
		si := y * src.Stride
		di := y * dst.Stride
		copy(dst.Pix[di:di+rowLen], src.Pix[si:si+rowLen])
	}
	return dst
}

// RecycleFrame returns the frame to the pool for potential reuse. The frame
// must no longer be accessed by the caller after invoking RecycleFrame.
func RecycleFrame(img *image.RGBA) {
	if img == nil || img.Pix == nil {
		return
	}
	framePool.Put(img)
}
