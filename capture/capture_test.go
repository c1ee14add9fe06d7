package capture

import (
	"image"
	"testing"
)

func TestScreenSource_Region(t *testing.T) {
	s := NewScreenSource()
	if !s.Region().Empty() {
		t.Fatal("new source should capture the full screen")
	}
	s.SetRegion(image.Rect(100, 80, 10, 20))
	if got, want := s.Region(), image.Rect(10, 20, 100, 80); got != want {
		t.Fatalf("region not canonicalised: got %v want %v", got, want)
	}
	s.SetRegion(image.Rectangle{})
	if !s.Region().Empty() {
		t.Fatal("empty rectangle should restore full screen")
	}
}
