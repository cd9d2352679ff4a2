package shrink

import (
	"context"
	"fmt"
	"time"

	"github.com/dendrascience/tinypng-compress/config"
	"github.com/dendrascience/tinypng-compress/util"
	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// Options configures Run.
type Options struct {
	Fs          afero.Fs
	ConfigPath  string
	RecordsPath string
	Log         *util.Logger

	// NewCompressor builds the remote compressor once the API key is known.
	NewCompressor func(apiKey string) Compressor

	// Overrides applied to the loaded configuration for this run only.
	// Zero values leave the configuration untouched.
	CompressDir     string
	ConcurrentLimit int
}

// Summary is the outcome of a Run.
type Summary struct {
	RunID  string
	Found  int
	Stats  Stats
	Config config.Config
}

// Run loads the configuration and the ledger, scans the compression directory
// and compresses every image found. It only fails when the configuration has
// no API key or the directory cannot be created or scanned; per-file errors
// are logged and counted.
func Run(ctx context.Context, opts Options) (Summary, error) {
	var sum Summary

	cfg, err := config.Load(opts.Fs, opts.ConfigPath)
	if err != nil {
		opts.Log.Printf("warning: %v", err)
	}
	if opts.CompressDir != "" {
		cfg.CompressDir = opts.CompressDir
	}
	if opts.ConcurrentLimit > 0 {
		cfg.ConcurrentLimit = opts.ConcurrentLimit
	}
	sum.Config = cfg

	if err := cfg.Validate(); err != nil {
		return sum, err
	}

	sum.RunID = uuid.NewString()
	store := util.NewRecordStore(opts.Fs, opts.RecordsPath)
	ledger := store.Load()

	if err := opts.Fs.MkdirAll(cfg.CompressDir, 0o755); err != nil {
		return sum, fmt.Errorf("failed to create %s: %w", cfg.CompressDir, err)
	}
	files, err := util.FindFiles(opts.Fs, cfg.CompressDir, cfg.Extensions, opts.Log)
	if err != nil {
		return sum, fmt.Errorf("failed to scan %s: %w", cfg.CompressDir, err)
	}
	sum.Found = len(files)
	opts.Log.Printf("found %d image files (run %s)", len(files), sum.RunID)

	b := &Batcher{
		Worker: &Worker{
			Fs:         opts.Fs,
			Extensions: cfg.Extensions,
			Ledger:     ledger,
			Compressor: opts.NewCompressor(cfg.APIKey),
			Log:        opts.Log,
			RunID:      sum.RunID,
			Now:        time.Now,
		},
		Store: store,
		Limit: cfg.ConcurrentLimit,
		Log:   opts.Log,
	}
	sum.Stats = b.Run(ctx, files)

	opts.Log.Printf("compression finished, %d files compressed", sum.Stats.Compressed)
	return sum, nil
}
