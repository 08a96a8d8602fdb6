package sensor

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/image/draw"
)

// SnapshotFile reads camera frames from an image file that an external
// capture tool keeps overwriting, e.g.
//
//	ffmpeg -f v4l2 -i /dev/video0 -vf fps=10 -update 1 frame.jpg
//
// Each write is decoded off the frame loop and downscaled to the sensor
// resolution. Latest never waits for a decode.
type SnapshotFile struct {
	path    string
	w, h    int
	watcher *fsnotify.Watcher

	mu     sync.Mutex
	latest Frame
	ready  bool
	errs   int

	started bool
	doneCh  chan struct{}
}

// NewSnapshotFile creates a file source that scales frames to w x h.
func NewSnapshotFile(path string, w, h int) (*SnapshotFile, error) {
	if path == "" {
		return nil, fmt.Errorf("snapshot source: empty path")
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	return &SnapshotFile{
		path:    filepath.Clean(path),
		w:       w,
		h:       h,
		watcher: fw,
		doneCh:  make(chan struct{}),
	}, nil
}

// Start loads the current snapshot if present and begins watching.
func (s *SnapshotFile) Start(ctx context.Context) error {
	if err := s.watcher.Add(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(s.path), err)
	}
	if _, err := os.Stat(s.path); err == nil {
		s.reload()
	}
	s.started = true
	go s.run(ctx)
	return nil
}

// Close stops watching.
func (s *SnapshotFile) Close() error {
	err := s.watcher.Close()
	if s.started {
		<-s.doneCh
	}
	return err
}

// Latest implements Source.
func (s *SnapshotFile) Latest() (Frame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest, s.ready
}

// DecodeErrors returns how many snapshots failed to decode.
func (s *SnapshotFile) DecodeErrors() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errs
}

func (s *SnapshotFile) run(ctx context.Context) {
	defer close(s.doneCh)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != s.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				s.reload()
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("snapshot watcher error", "error", err)
		}
	}
}

// reload decodes the snapshot and publishes it. Partial writes simply fail
// to decode; the previous frame stays current until the next write.
func (s *SnapshotFile) reload() {
	frame, err := DecodeFile(s.path, s.w, s.h)
	if err != nil {
		s.mu.Lock()
		s.errs++
		s.mu.Unlock()
		slog.Debug("snapshot decode failed", "path", s.path, "error", err)
		return
	}
	s.mu.Lock()
	s.latest = frame
	s.ready = true
	s.mu.Unlock()
}

// DecodeFile decodes a PNG or JPEG and scales it into a w x h frame.
func DecodeFile(path string, w, h int) (Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return Frame{}, fmt.Errorf("opening snapshot: %w", err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return Frame{}, fmt.Errorf("decoding snapshot: %w", err)
	}
	return Downscale(src, w, h), nil
}

// Downscale resamples any image into a w x h frame.
func Downscale(src image.Image, w, h int) Frame {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return FrameFromRGBA(dst)
}
