package workload

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/rs/zerolog"

	apperrors "github.com/agbru/parbench/internal/errors"
)

// FileUnit is a path in the scanned tree. Dir is decided from the parent
// listing and never re-checked.
type FileUnit struct {
	Path string
	Dir  bool
}

// FileCountWorkload counts files strictly larger than a byte threshold.
//
// Symbolic links are not followed: a link is a leaf measured with Lstat, so
// link cycles cannot make the walk unbounded. Listing and stat failures are
// logged at debug level and contribute nothing.
type FileCountWorkload struct {
	minSize int64
	logger  zerolog.Logger
	skipped atomic.Int64
}

var (
	_ Workload[FileUnit, int64]    = (*FileCountWorkload)(nil)
	_ Accumulable[FileUnit, int64] = (*FileCountWorkload)(nil)
)

// NewFileCount creates a workload counting files larger than minSize bytes.
func NewFileCount(minSize int64) (*FileCountWorkload, error) {
	if minSize < 0 {
		return nil, apperrors.NewConfigError("minimum size must be non-negative, got %d", minSize)
	}
	return &FileCountWorkload{minSize: minSize, logger: zerolog.Nop()}, nil
}

// SetLogger configures the logger used for skipped paths.
func (w *FileCountWorkload) SetLogger(l zerolog.Logger) {
	w.logger = l
}

// MinSize returns the byte threshold.
func (w *FileCountWorkload) MinSize() int64 { return w.minSize }

// Skipped returns how many listing or stat failures were absorbed so far.
func (w *FileCountWorkload) Skipped() int64 { return w.skipped.Load() }

// Root validates path and returns it as the root unit.
func (w *FileCountWorkload) Root(path string) (FileUnit, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileUnit{}, apperrors.NewConfigError("cannot access root directory %q: %v", path, err)
	}
	if !info.IsDir() {
		return FileUnit{}, apperrors.NewConfigError("root %q is not a directory", path)
	}
	return FileUnit{Path: filepath.Clean(path), Dir: true}, nil
}

// IsLeaf reports whether u is anything other than a directory.
func (w *FileCountWorkload) IsLeaf(u FileUnit) bool { return !u.Dir }

// Split lists the immediate children of a directory. Entries read before a
// listing error are still returned.
func (w *FileCountWorkload) Split(u FileUnit) []FileUnit {
	if !u.Dir {
		return nil
	}
	entries, err := os.ReadDir(u.Path)
	if err != nil {
		w.skip(u.Path, err)
	}
	children := make([]FileUnit, 0, len(entries))
	for _, e := range entries {
		children = append(children, FileUnit{Path: filepath.Join(u.Path, e.Name()), Dir: e.IsDir()})
	}
	return children
}

// ComputeLeaf returns 1 when the file at u is larger than the threshold.
func (w *FileCountWorkload) ComputeLeaf(u FileUnit) int64 {
	info, err := os.Lstat(u.Path)
	if err != nil {
		w.skip(u.Path, err)
		return 0
	}
	if info.Size() > w.minSize {
		return 1
	}
	return 0
}

// Merge adds two counts.
func (w *FileCountWorkload) Merge(a, b int64) int64 { return a + b }

// Empty returns zero.
func (w *FileCountWorkload) Empty() int64 { return 0 }

// Equal compares two counts.
func (w *FileCountWorkload) Equal(a, b int64) bool { return a == b }

// NewAccumulator returns a lock-free counter.
func (w *FileCountWorkload) NewAccumulator(FileUnit) Accumulator[FileUnit, int64] {
	return &countAccumulator{}
}

func (w *FileCountWorkload) skip(path string, err error) {
	w.skipped.Add(1)
	w.logger.Debug().Str("path", path).Err(err).Msg("path skipped")
}

type countAccumulator struct {
	n atomic.Int64
}

func (a *countAccumulator) Add(_ FileUnit, partial int64) { a.n.Add(partial) }

func (a *countAccumulator) Result() int64 { return a.n.Load() }

// SerialFileCount is the reference single-goroutine walk. Unreadable
// directories and entries are skipped.
func SerialFileCount(root string, minSize int64) int64 {
	var count int64
	_ = filepath.WalkDir(root, func(_ string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if info.Size() > minSize {
			count++
		}
		return nil
	})
	return count
}
