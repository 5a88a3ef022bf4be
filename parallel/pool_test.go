package parallel

import (
	"errors"
	"sync/atomic"
	"testing"
)

func TestPoolRunsAllJobs(t *testing.T) {
	for _, workers := range []int{0, 1, 4} {
		pool := Start(workers)
		var ran atomic.Int64
		for range 50 {
			pool.Do(func() error {
				ran.Add(1)
				return nil
			})
		}
		if err := pool.Wait(); err != nil {
			t.Fatalf("workers=%d: unexpected error %v", workers, err)
		}
		if got := ran.Load(); got != 50 {
			t.Errorf("workers=%d: ran %d jobs, want 50", workers, got)
		}
	}
}

func TestPoolJoinsErrors(t *testing.T) {
	errA := errors.New("a")
	errB := errors.New("b")

	for _, workers := range []int{1, 3} {
		pool := Start(workers)
		pool.Do(func() error { return errA })
		pool.Do(func() error { return nil })
		pool.Do(func() error { return errB })

		err := pool.Wait()
		if !errors.Is(err, errA) || !errors.Is(err, errB) {
			t.Errorf("workers=%d: expected both errors, got %v", workers, err)
		}
	}
}

func TestPoolWaitTwice(t *testing.T) {
	pool := Start(2)
	pool.Do(func() error { return nil })
	if err := pool.Wait(); err != nil {
		t.Fatal(err)
	}
	if err := pool.Wait(); err != nil {
		t.Fatal(err)
	}
}

func TestPoolWaitStopsWorkers(t *testing.T) {
	pool := Start(4)
	if got := pool.Running(); got != 4 {
		t.Fatalf("running = %d after Start, want 4", got)
	}
	// Wait with nothing submitted still releases every worker.
	if err := pool.Wait(); err != nil {
		t.Fatal(err)
	}
	if got := pool.Running(); got != 0 {
		t.Errorf("running = %d after Wait, want 0", got)
	}

	if got := Start(1).Running(); got != 0 {
		t.Errorf("inline pool has %d workers, want 0", got)
	}
}
