package view

import (
	"image"

	"github.com/soocke/framewatch/ui/images"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

const (
	maxPreviewW = 320
	maxPreviewH = 180
)

// snapshotPreview shows the most recent drop snapshot. The previous photo is
// deleted before it is replaced so obsolete pixel buffers are not retained.
type snapshotPreview struct {
	label   *LabelWidget
	caption *LabelWidget
	photo   *Img
}

func newSnapshotPreview(row int) *snapshotPreview {
	photo := NewPhoto(Data(images.EncodePNG(images.Placeholder(maxPreviewW, maxPreviewH))))
	label := Label(Image(photo), Borderwidth(1), Relief("sunken"))
	caption := Label(Txt("No snapshots yet"))
	Grid(label, Row(row), Column(0), Columnspan(4), Sticky("we"), Padx("0.4m"), Pady("0.4m"))
	Grid(caption, Row(row+1), Column(0), Columnspan(4), Sticky("w"), Padx("0.4m"))
	return &snapshotPreview{label: label, caption: caption, photo: photo}
}

func (v *snapshotPreview) update(img image.Image, caption string) {
	if v == nil || v.label == nil || img == nil {
		return
	}
	data := images.EncodePNG(images.ScaleToFit(img, maxPreviewW, maxPreviewH))
	if v.photo != nil {
		v.photo.Delete()
	}
	v.photo = NewPhoto(Data(data))
	v.label.Configure(Image(v.photo))
	v.caption.Configure(Txt(caption))
}
