package shrink

import (
	"context"

	"github.com/dendrascience/tinypng-compress/util"
	"golang.org/x/sync/errgroup"
)

// LedgerSaver persists the ledger. *util.RecordStore implements it.
type LedgerSaver interface {
	Save(*util.Ledger) error
}

// Stats counts the outcomes of a batched run.
type Stats struct {
	Compressed   int
	Marginal     int
	Unchanged    int
	Failed       int
	NotAttempted int
	Batches      int
	Flushes      int
}

func (s *Stats) add(o Outcome) {
	switch o {
	case Compressed:
		s.Compressed++
	case Marginal:
		s.Marginal++
	case Unchanged:
		s.Unchanged++
	case Failed:
		s.Failed++
	case NotAttempted:
		s.NotAttempted++
	}
}

// Batcher runs a Worker over files in fixed-size batches.
type Batcher struct {
	Worker *Worker
	Store  LedgerSaver
	// Limit is the batch size; values below 1 are treated as 1.
	Limit int
	Log   *util.Logger
}

// Run processes files batch by batch. The files of a batch are processed
// concurrently and the ledger is saved once all of them have settled, before
// the next batch starts. Stats.Compressed is the number of files counted as
// successfully compressed.
func (b *Batcher) Run(ctx context.Context, files []string) Stats {
	var stats Stats
	limit := max(b.Limit, 1)

	for start := 0; start < len(files); start += limit {
		batch := files[start:min(start+limit, len(files))]
		results := make([]Result, len(batch))

		var g errgroup.Group
		for i, f := range batch {
			g.Go(func() error {
				results[i] = b.Worker.Process(ctx, f)
				return nil
			})
		}
		// workers never return errors; Wait is the batch barrier
		_ = g.Wait()

		for _, r := range results {
			stats.add(r.Outcome)
		}
		stats.Batches++

		if err := b.Store.Save(b.Worker.Ledger); err != nil {
			b.Log.Printf("failed to save records: %v", err)
		} else {
			stats.Flushes++
		}
	}
	return stats
}
