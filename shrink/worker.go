package shrink

import (
	"context"
	"path/filepath"
	"time"

	"github.com/dendrascience/tinypng-compress/util"
	"github.com/spf13/afero"
)

const (
	// MinRatio is the percentage a compression must beat to count.
	MinRatio = 10.0
	// LargeFileSize is the compressed size above which a compression
	// below MinRatio still counts.
	LargeFileSize = 5 * 1024
)

// Compressor turns image bytes into smaller bytes of the same image.
type Compressor interface {
	Shrink(ctx context.Context, data []byte) ([]byte, error)
}

// Outcome is what happened to a single file.
type Outcome int

const (
	// NotAttempted means the extension is not accepted.
	NotAttempted Outcome = iota
	// Unchanged means the ledger already holds the file's current hash.
	Unchanged
	// Compressed means the file was compressed and the result counts.
	Compressed
	// Marginal means the file was compressed and recorded but the result
	// does not count.
	Marginal
	// Failed means an error stopped the file from being processed.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case NotAttempted:
		return "not attempted"
	case Unchanged:
		return "unchanged"
	case Compressed:
		return "compressed"
	case Marginal:
		return "marginal"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result describes the processing of one file.
type Result struct {
	Path           string
	Outcome        Outcome
	OriginalSize   int64
	CompressedSize int64
	Ratio          float64
	Err            error
}

// Worker compresses single files and records them in the ledger.
type Worker struct {
	Fs         afero.Fs
	Extensions []string
	Ledger     *util.Ledger
	Compressor Compressor
	Log        *util.Logger
	RunID      string
	Now        func() time.Time
}

// Process runs the full decision flow for path. Errors never escape; they
// are logged and reported as Failed.
func (w *Worker) Process(ctx context.Context, path string) Result {
	path = filepath.Clean(path)
	name := filepath.Base(path)
	res := Result{Path: path}

	if !util.HasExtension(path, w.Extensions) {
		res.Outcome = NotAttempted
		return res
	}

	data, err := afero.ReadFile(w.Fs, path)
	if err != nil {
		return w.fail(res, name, err)
	}
	if rec, ok := w.Ledger.Get(path); ok && rec.MD5 == util.HashBytes(data) {
		w.Log.Printf("skipping already compressed: %s (recorded and unchanged)", name)
		res.Outcome = Unchanged
		return res
	}

	info, err := w.Fs.Stat(path)
	if err != nil {
		return w.fail(res, name, err)
	}
	res.OriginalSize = int64(len(data))

	out, err := w.Compressor.Shrink(ctx, data)
	if err != nil {
		return w.fail(res, name, err)
	}
	if err := util.WriteFileAtomic(w.Fs, path, out, info.Mode().Perm()); err != nil {
		return w.fail(res, name, err)
	}

	// measure what actually landed on disk
	hash, err := util.GetFileHash(w.Fs, path)
	if err != nil {
		return w.fail(res, name, err)
	}
	after, err := w.Fs.Stat(path)
	if err != nil {
		return w.fail(res, name, err)
	}
	res.CompressedSize = after.Size()
	res.Ratio = Ratio(res.OriginalSize, res.CompressedSize)

	w.Ledger.Set(path, util.Record{
		MD5:              hash,
		CompressedSize:   res.CompressedSize,
		CompressionRatio: res.Ratio,
		Timestamp:        w.now().UTC(),
		RunID:            w.RunID,
	})

	if IsValidCompression(res.Ratio, res.CompressedSize) {
		w.Log.Printf("compressed: %s (saved %.2f%%)", name, res.Ratio)
		res.Outcome = Compressed
	} else {
		w.Log.Printf("compression recorded but not counted: %s (ratio %.2f%%, size %d)", name, res.Ratio, res.CompressedSize)
		res.Outcome = Marginal
	}
	return res
}

func (w *Worker) fail(res Result, name string, err error) Result {
	w.Log.Printf("compression failed: %s - %v", name, err)
	res.Outcome = Failed
	res.Err = err
	return res
}

func (w *Worker) now() time.Time {
	if w.Now != nil {
		return w.Now()
	}
	return time.Now()
}

// Ratio returns the percentage saved going from original to compressed bytes.
// An empty original yields 0.
func Ratio(original, compressed int64) float64 {
	if original <= 0 {
		return 0
	}
	return float64(original-compressed) * 100 / float64(original)
}

// IsValidCompression decides whether a compression counts as a success.
// A ratio of exactly MinRatio never counts, whatever the size.
func IsValidCompression(ratio float64, compressedSize int64) bool {
	return ratio > MinRatio || (ratio < MinRatio && compressedSize > LargeFileSize)
}
