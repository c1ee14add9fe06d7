// Package snapshots reads persisted drop snapshots back from the storage
// directory.
package snapshots

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/dustin/go-humanize"
	"github.com/goccy/go-json"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/soocke/framewatch/domain/diagnostics"
)

// DefaultCacheSize bounds the number of decoded thumbnails kept in memory.
const DefaultCacheSize = 64

type thumbKey struct {
	name  string
	maxPx int
}

// Store lists snapshot metadata and serves bounded thumbnails.
type Store struct {
	dir    string
	logger *slog.Logger
	thumbs *lru.Cache[thumbKey, image.Image]
}

// Open returns a store over dir. cacheSize <= 0 uses DefaultCacheSize.
func Open(dir string, cacheSize int, logger *slog.Logger) (*Store, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	cache, err := lru.New[thumbKey, image.Image](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("thumbnail cache: %w", err)
	}
	return &Store{dir: dir, logger: logger, thumbs: cache}, nil
}

// Dir returns the directory the store reads from.
func (s *Store) Dir() string { return s.dir }

// List returns the metadata of every snapshot pair, oldest first. Files that
// fail to parse are skipped. Sidecars whose image is missing are skipped too.
func (s *Store) List() ([]diagnostics.DropEvent, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	var out []diagnostics.DropEvent
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, "framewatch_") || filepath.Ext(name) != ".json" {
			continue
		}
		ev, err := s.readMeta(name)
		if err != nil {
			s.logger.Debug("snapshot metadata skipped", "file", name, "error", err)
			continue
		}
		if !ev.HasSnapshot() {
			continue
		}
		if _, err := os.Stat(filepath.Join(s.dir, ev.ScreenshotFileName)); err != nil {
			continue
		}
		out = append(out, ev)
	}
	slices.SortFunc(out, func(a, b diagnostics.DropEvent) int {
		if c := a.Timestamp.Compare(b.Timestamp); c != 0 {
			return c
		}
		switch {
		case a.Seq < b.Seq:
			return -1
		case a.Seq > b.Seq:
			return 1
		}
		return 0
	})
	return out, nil
}

func (s *Store) readMeta(name string) (diagnostics.DropEvent, error) {
	var ev diagnostics.DropEvent
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return ev, err
	}
	if err := json.Unmarshal(data, &ev); err != nil {
		return ev, err
	}
	return ev, nil
}

// Thumbnail loads the named image scaled to fit within maxPx on both sides.
// Results are cached per (name, maxPx).
func (s *Store) Thumbnail(name string, maxPx int) (image.Image, error) {
	if name == "" || filepath.Base(name) != name {
		return nil, fmt.Errorf("thumbnail: invalid name %q", name)
	}
	if maxPx <= 0 {
		return nil, fmt.Errorf("thumbnail: invalid size %d", maxPx)
	}
	key := thumbKey{name: name, maxPx: maxPx}
	if img, ok := s.thumbs.Get(key); ok {
		return img, nil
	}
	src, err := imaging.Open(filepath.Join(s.dir, name))
	if err != nil {
		return nil, fmt.Errorf("thumbnail %s: %w", name, err)
	}
	var img image.Image = src
	if b := src.Bounds(); b.Dx() > maxPx || b.Dy() > maxPx {
		img = imaging.Fit(src, maxPx, maxPx, imaging.Lanczos)
	}
	s.thumbs.Add(key, img)
	return img, nil
}

// Usage reports the number of snapshot files and their total size.
func (s *Store) Usage() (files int, bytes uint64, err error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, 0, nil
		}
		return 0, 0, fmt.Errorf("snapshot usage: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), "framewatch_") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files++
		bytes += uint64(info.Size())
	}
	return files, bytes, nil
}

// LogUsage writes a one-line summary of the directory's footprint.
func (s *Store) LogUsage() {
	files, size, err := s.Usage()
	if err != nil {
		s.logger.Warn("snapshot usage", "error", err)
		return
	}
	s.logger.Info("snapshots", "dir", s.dir, "files", files, "size", humanize.Bytes(size))
}
