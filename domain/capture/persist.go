package capture

import (
	"bytes"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/dustin/go-humanize"
	"github.com/goccy/go-json"
	"golang.org/x/image/draw"

	"github.com/soocke/framewatch/domain/diagnostics"
)

// Stem returns the shared file name stem of an event's snapshot pair:
// framewatch_<unix seconds>_<seq>. The seq suffix keeps two events closing in
// the same second apart.
func Stem(ev diagnostics.DropEvent) string {
	return fmt.Sprintf("framewatch_%d_%d", ev.Timestamp.Unix(), ev.Seq)
}

// persist encodes img, writes <stem>.jpg and <stem>.json, and amends the log
// entry once both files are on disk.
func (p *Pipeline) persist(ev diagnostics.DropEvent, img image.Image) error {
	data, err := EncodeJPEG(img, p.opts.JPEGQuality, p.opts.MaxDimension)
	if err != nil {
		return err
	}

	stem := Stem(ev)
	imageName := stem + ".jpg"
	imagePath := filepath.Join(p.opts.Dir, imageName)
	if err := os.WriteFile(imagePath, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	ev.ScreenshotFileName = imageName
	meta, err := json.MarshalIndent(ev, "", "  ")
	if err != nil {
		_ = os.Remove(imagePath)
		return fmt.Errorf("encode metadata: %w", err)
	}
	metaPath := filepath.Join(p.opts.Dir, stem+".json")
	if err := os.WriteFile(metaPath, meta, 0o644); err != nil {
		_ = os.Remove(imagePath)
		return fmt.Errorf("write metadata: %w", err)
	}

	p.log.Amend(ev.Seq, imageName)
	p.logger.Debug("capture.saved",
		slog.Uint64("seq", ev.Seq),
		slog.String("file", imagePath),
		slog.String("size", humanize.Bytes(uint64(len(data)))),
	)
	return nil
}

// EncodeJPEG downscales img so its longest side is at most maxDim (0 disables)
// and encodes it as JPEG at the given quality.
func EncodeJPEG(img image.Image, quality, maxDim int) ([]byte, error) {
	if img == nil {
		return nil, fmt.Errorf("encode snapshot: nil image")
	}
	img = fitWithin(img, maxDim)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// fitWithin scales src so both sides fit within maxDim, preserving aspect
// ratio. Sources that already fit are returned unchanged.
func fitWithin(src image.Image, maxDim int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxDim <= 0 || (w <= maxDim && h <= maxDim) {
		return src
	}
	ratio := float64(maxDim) / float64(w)
	if r := float64(maxDim) / float64(h); r < ratio {
		ratio = r
	}
	newW := int(float64(w)*ratio + 0.5)
	newH := int(float64(h)*ratio + 0.5)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}
