package asset

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"io/fs"
	"os"
	"time"
)

// ErrNotFound is returned when a model file does not exist
var ErrNotFound = errors.New("asset not found")

// Model is a loaded asset ready to be placed in the scene
type Model struct {
	Name    string
	Texture image.Image
}

// Loader reads models from a filesystem. It is safe for concurrent use
// as long as its fields are not changed after the first Load.
type Loader struct {
	fsys fs.FS

	// Latency delays every load; used to exercise the asynchronous path
	Latency time.Duration

	// OnProgress, if set, is called after each load with its outcome
	OnProgress func(name string, err error)
}

// NewLoader creates a loader over fsys
func NewLoader(fsys fs.FS) *Loader {
	return &Loader{fsys: fsys}
}

// NewDirLoader creates a loader rooted at dir on disk
func NewDirLoader(dir string) *Loader {
	return NewLoader(os.DirFS(dir))
}

// Load reads and decodes the named image. It honours ctx cancellation
// while waiting out any configured latency.
func (l *Loader) Load(ctx context.Context, name string) (m *Model, err error) {
	defer func() {
		if l.OnProgress != nil {
			l.OnProgress(name, err)
		}
	}()

	if l.Latency > 0 {
		timer := time.NewTimer(l.Latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := l.fsys.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return &Model{Name: name, Texture: img}, nil
}
