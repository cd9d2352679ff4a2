package shrink

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dendrascience/tinypng-compress/util"
	"github.com/spf13/afero"
)

var errRemote = errors.New("remote said no")

// fakeCompressor shrinks data to percent of its size.
type fakeCompressor struct {
	percent     int
	fail        map[int]bool // fail inputs of these sizes
	calls       atomic.Int32
	inflight    atomic.Int32
	maxInflight atomic.Int32
	delay       time.Duration
	// gate, when set, is called on entry and must return before compressing
	gate func()
}

func (f *fakeCompressor) Shrink(ctx context.Context, data []byte) ([]byte, error) {
	f.calls.Add(1)
	n := f.inflight.Add(1)
	defer f.inflight.Add(-1)
	for {
		m := f.maxInflight.Load()
		if n <= m || f.maxInflight.CompareAndSwap(m, n) {
			break
		}
	}
	if f.gate != nil {
		f.gate()
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.fail[len(data)] {
		return nil, errRemote
	}
	return bytes.Repeat([]byte{'z'}, len(data)*f.percent/100), nil
}

func newTestWorker(fsys afero.Fs, c Compressor) *Worker {
	return &Worker{
		Fs:         fsys,
		Extensions: []string{".png", ".jpg", ".jpeg"},
		Ledger:     util.NewLedger(),
		Compressor: c,
		RunID:      "run-1",
		Now:        func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) },
	}
}

func writeImage(t *testing.T, fsys afero.Fs, path string, size int) []byte {
	t.Helper()
	data := bytes.Repeat([]byte{'a'}, size)
	if err := afero.WriteFile(fsys, path, data, 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return data
}

func TestWorker_CompressThenSkipUnchanged(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeImage(t, fsys, "images/a.png", 2000)
	comp := &fakeCompressor{percent: 85}
	w := newTestWorker(fsys, comp)

	res := w.Process(context.Background(), "images/a.png")
	if res.Outcome != Compressed {
		t.Fatalf("first Process() outcome = %v (err %v), want compressed", res.Outcome, res.Err)
	}
	if res.OriginalSize != 2000 || res.CompressedSize != 1700 || res.Ratio != 15 {
		t.Errorf("Process() = %+v, want 2000 -> 1700 at 15%%", res)
	}

	after, _ := afero.ReadFile(fsys, "images/a.png")
	if len(after) != 1700 {
		t.Fatalf("file size after compression = %d, want 1700", len(after))
	}
	rec, ok := w.Ledger.Get("images/a.png")
	if !ok {
		t.Fatal("ledger has no entry after compression")
	}
	want := util.Record{
		MD5:              util.HashBytes(after),
		CompressedSize:   1700,
		CompressionRatio: 15,
		Timestamp:        time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		RunID:            "run-1",
	}
	if rec != want {
		t.Errorf("ledger entry = %+v, want %+v", rec, want)
	}

	res = w.Process(context.Background(), "images/a.png")
	if res.Outcome != Unchanged {
		t.Errorf("second Process() outcome = %v, want unchanged", res.Outcome)
	}
	if comp.calls.Load() != 1 {
		t.Errorf("compressor called %d times, want 1", comp.calls.Load())
	}
	again, _ := afero.ReadFile(fsys, "images/a.png")
	if !bytes.Equal(again, after) {
		t.Error("file bytes changed on the unchanged path")
	}
}

func TestWorker_ChangedContentIsCompressedAgain(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeImage(t, fsys, "a.png", 2000)
	comp := &fakeCompressor{percent: 50}
	w := newTestWorker(fsys, comp)
	w.Ledger.Set("a.png", util.Record{MD5: "stale"})

	if res := w.Process(context.Background(), "a.png"); res.Outcome != Compressed {
		t.Errorf("Process() outcome = %v, want compressed", res.Outcome)
	}
	if comp.calls.Load() != 1 {
		t.Errorf("compressor called %d times, want 1", comp.calls.Load())
	}
}

func TestWorker_NotAttempted(t *testing.T) {
	fsys := afero.NewMemMapFs()
	original := writeImage(t, fsys, "c.txt", 100)
	comp := &fakeCompressor{percent: 50}
	w := newTestWorker(fsys, comp)

	res := w.Process(context.Background(), "c.txt")
	if res.Outcome != NotAttempted {
		t.Errorf("Process() outcome = %v, want not attempted", res.Outcome)
	}
	if comp.calls.Load() != 0 {
		t.Errorf("compressor called %d times, want 0", comp.calls.Load())
	}
	if w.Ledger.Len() != 0 {
		t.Errorf("ledger has %d entries, want 0", w.Ledger.Len())
	}
	got, _ := afero.ReadFile(fsys, "c.txt")
	if !bytes.Equal(got, original) {
		t.Error("file was modified")
	}
}

func TestWorker_Outcomes(t *testing.T) {
	tests := []struct {
		name        string
		size        int
		percent     int
		wantOutcome Outcome
		wantRatio   float64
	}{
		{name: "good compression", size: 2000, percent: 85, wantOutcome: Compressed, wantRatio: 15},
		{name: "exactly ten percent is not counted", size: 2000, percent: 90, wantOutcome: Marginal, wantRatio: 10},
		{name: "small poor compression", size: 2000, percent: 95, wantOutcome: Marginal, wantRatio: 5},
		{name: "large poor compression still counts", size: 10000, percent: 95, wantOutcome: Compressed, wantRatio: 5},
		{name: "large file at exactly ten percent", size: 10000, percent: 90, wantOutcome: Marginal, wantRatio: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := afero.NewMemMapFs()
			writeImage(t, fsys, "img.jpg", tt.size)
			w := newTestWorker(fsys, &fakeCompressor{percent: tt.percent})

			res := w.Process(context.Background(), "img.jpg")
			if res.Outcome != tt.wantOutcome {
				t.Errorf("Process() outcome = %v, want %v", res.Outcome, tt.wantOutcome)
			}
			if res.Ratio != tt.wantRatio {
				t.Errorf("Process() ratio = %v, want %v", res.Ratio, tt.wantRatio)
			}
			// every compression is recorded, counted or not
			rec, ok := w.Ledger.Get("img.jpg")
			if !ok {
				t.Fatal("ledger has no entry")
			}
			if rec.CompressionRatio != tt.wantRatio {
				t.Errorf("recorded ratio = %v, want %v", rec.CompressionRatio, tt.wantRatio)
			}
		})
	}
}

func TestWorker_Failures(t *testing.T) {
	t.Run("remote error", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		original := writeImage(t, fsys, "a.png", 2000)
		w := newTestWorker(fsys, &fakeCompressor{percent: 50, fail: map[int]bool{2000: true}})

		res := w.Process(context.Background(), "a.png")
		if res.Outcome != Failed || !errors.Is(res.Err, errRemote) {
			t.Errorf("Process() = %v/%v, want failed with remote error", res.Outcome, res.Err)
		}
		got, _ := afero.ReadFile(fsys, "a.png")
		if !bytes.Equal(got, original) {
			t.Error("file was modified after a failed compression")
		}
		if w.Ledger.Len() != 0 {
			t.Error("ledger was updated after a failed compression")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		w := newTestWorker(afero.NewMemMapFs(), &fakeCompressor{percent: 50})
		if res := w.Process(context.Background(), "gone.png"); res.Outcome != Failed {
			t.Errorf("Process() outcome = %v, want failed", res.Outcome)
		}
	})

	t.Run("read-only filesystem", func(t *testing.T) {
		base := afero.NewMemMapFs()
		writeImage(t, base, "a.png", 2000)
		comp := &fakeCompressor{percent: 50}
		w := newTestWorker(afero.NewReadOnlyFs(base), comp)

		res := w.Process(context.Background(), "a.png")
		if res.Outcome != Failed {
			t.Errorf("Process() outcome = %v, want failed", res.Outcome)
		}
		if comp.calls.Load() != 1 {
			t.Errorf("compressor called %d times, want 1", comp.calls.Load())
		}
	})
}

func TestWorker_LogsOutcome(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeImage(t, fsys, "dir/a.png", 2000)
	var buf bytes.Buffer
	w := newTestWorker(fsys, &fakeCompressor{percent: 85})
	w.Log = util.NewLogger(&buf)

	w.Process(context.Background(), "dir/a.png")
	if !bytes.Contains(buf.Bytes(), []byte("compressed: a.png (saved 15.00%)")) {
		t.Errorf("log = %q, want a compressed line for a.png", buf.String())
	}
}

func TestIsValidCompression(t *testing.T) {
	tests := []struct {
		ratio float64
		size  int64
		want  bool
	}{
		{15, 100, true},
		{10.01, 100, true},
		{10, 100, false},
		{10, 100000, false},
		{9.99, 5121, true},
		{5, 5120, false},
		{5, 100, false},
		{-3, 6000, true},
		{0, 0, false},
	}
	for _, tt := range tests {
		if got := IsValidCompression(tt.ratio, tt.size); got != tt.want {
			t.Errorf("IsValidCompression(%v, %d) = %v, want %v", tt.ratio, tt.size, got, tt.want)
		}
	}
}

func TestRatio(t *testing.T) {
	tests := []struct {
		original, compressed int64
		want                 float64
	}{
		{2000, 1700, 15},
		{2000, 1800, 10},
		{100, 100, 0},
		{100, 150, -50},
		{0, 0, 0},
	}
	for _, tt := range tests {
		if got := Ratio(tt.original, tt.compressed); got != tt.want {
			t.Errorf("Ratio(%d, %d) = %v, want %v", tt.original, tt.compressed, got, tt.want)
		}
	}
}
