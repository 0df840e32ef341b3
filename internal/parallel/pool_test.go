package parallel

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestWorkerPool_Create(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	if pool.Workers() != 4 {
		t.Errorf("Workers() = %d, want 4", pool.Workers())
	}
	if !pool.IsRunning() {
		t.Error("pool should be running after creation")
	}
}

func TestWorkerPool_CreateDefaultWorkers(t *testing.T) {
	for _, n := range []int{0, -5} {
		pool := NewWorkerPool(n)
		want := runtime.GOMAXPROCS(0)
		if pool.Workers() != want {
			t.Errorf("NewWorkerPool(%d).Workers() = %d, want %d", n, pool.Workers(), want)
		}
		pool.Close()
	}
}

func TestWorkerPool_ExecuteAll(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	var counter atomic.Int64
	work := make([]func(), 100)
	for i := range work {
		work[i] = func() { counter.Add(1) }
	}

	if err := pool.ExecuteAll(context.Background(), work); err != nil {
		t.Fatalf("ExecuteAll() error = %v", err)
	}
	if counter.Load() != 100 {
		t.Errorf("counter = %d, want 100", counter.Load())
	}
}

func TestWorkerPool_ExecuteAll_EmptyAndNil(t *testing.T) {
	pool := NewWorkerPool(2)
	defer pool.Close()

	if err := pool.ExecuteAll(context.Background(), nil); err != nil {
		t.Errorf("ExecuteAll(nil) error = %v", err)
	}

	var ran atomic.Bool
	work := []func(){nil, func() { ran.Store(true) }, nil}
	if err := pool.ExecuteAll(context.Background(), work); err != nil {
		t.Fatalf("ExecuteAll() error = %v", err)
	}
	if !ran.Load() {
		t.Error("non-nil work item did not run")
	}
}

func TestWorkerPool_ExecuteAll_Cancelled(t *testing.T) {
	pool := NewWorkerPool(1)
	defer pool.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var ran atomic.Int64
	work := make([]func(), 50)
	for i := range work {
		work[i] = func() {
			if ran.Add(1) == 1 {
				cancel()
			}
		}
	}

	err := pool.ExecuteAll(ctx, work)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("ExecuteAll() error = %v, want context.Canceled", err)
	}
	if got := ran.Load(); got >= 50 {
		t.Errorf("ran %d items after cancel, want fewer than 50", got)
	}
}

func TestWorkerPool_CloseIdempotent(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Close()
	pool.Close()

	if pool.IsRunning() {
		t.Error("pool should not be running after Close")
	}
}

func TestWorkerPool_ExecuteAfterClose(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Close()

	err := pool.ExecuteAll(context.Background(), []func(){func() {}})
	if !errors.Is(err, ErrPoolClosed) {
		t.Errorf("ExecuteAll() after Close error = %v, want ErrPoolClosed", err)
	}
}

func TestWorkerPool_Concurrent(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	var counter atomic.Int64
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			work := make([]func(), 25)
			for i := range work {
				work[i] = func() { counter.Add(1) }
			}
			if err := pool.ExecuteAll(context.Background(), work); err != nil {
				t.Errorf("ExecuteAll() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if counter.Load() != 200 {
		t.Errorf("counter = %d, want 200", counter.Load())
	}
}

// TestWorkerPool_WorkStealing spreads slow items over the workers.
func TestWorkerPool_WorkStealing(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	start := time.Now()
	work := make([]func(), 16)
	for i := range work {
		work[i] = func() {
			time.Sleep(5 * time.Millisecond)
		}
	}
	if err := pool.ExecuteAll(context.Background(), work); err != nil {
		t.Fatalf("ExecuteAll() error = %v", err)
	}

	// 16 items of 5ms on 4 workers: well under the serial 80ms.
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("ExecuteAll took %v", elapsed)
	}
}

func TestBands(t *testing.T) {
	tests := []struct {
		name        string
		height, per int
		want        []Band
	}{
		{"empty", 0, 4, nil},
		{"exact", 8, 4, []Band{{0, 4}, {4, 8}}},
		{"remainder", 10, 4, []Band{{0, 4}, {4, 8}, {8, 10}}},
		{"single row bands", 3, 0, []Band{{0, 1}, {1, 2}, {2, 3}}},
		{"one band", 3, 100, []Band{{0, 3}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Bands(tt.height, tt.per)
			if len(got) != len(tt.want) {
				t.Fatalf("Bands(%d, %d) = %v, want %v", tt.height, tt.per, got, tt.want)
			}
			total := 0
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("band %d = %v, want %v", i, got[i], tt.want[i])
				}
				total += got[i].Rows()
			}
			if total != max(tt.height, 0) {
				t.Errorf("bands cover %d rows, want %d", total, tt.height)
			}
		})
	}
}

func TestRowsPerBand(t *testing.T) {
	if got := RowsPerBand(1080, 4); got != 67 {
		t.Errorf("RowsPerBand(1080, 4) = %d, want 67", got)
	}
	if got := RowsPerBand(3, 8); got != 1 {
		t.Errorf("RowsPerBand(3, 8) = %d, want 1", got)
	}
	if got := RowsPerBand(10, 0); got != 2 {
		t.Errorf("RowsPerBand(10, 0) = %d, want 2", got)
	}
}
