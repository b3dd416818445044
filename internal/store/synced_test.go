package store

import (
	"errors"
	"sync"
	"testing"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestInitialLoadLifecycle(t *testing.T) {
	s := NewSynced[int]()
	defer s.Close()

	if got := s.Snapshot().State; got != Uninitialized {
		t.Fatalf("initial state = %v, want uninitialized", got)
	}

	token, err := s.BeginRefresh()
	if err != nil {
		t.Fatalf("BeginRefresh: %v", err)
	}
	snap := s.Snapshot()
	if snap.State != Loading || !snap.Busy {
		t.Errorf("during first load: state=%v busy=%v, want loading/busy", snap.State, snap.Busy)
	}

	if !s.Commit(token, 42) {
		t.Fatal("commit of current token should apply")
	}
	snap = s.Snapshot()
	if snap.State != Ready || snap.Busy || snap.Data != 42 || snap.Err != nil {
		t.Errorf("after commit: %+v", snap)
	}
}

func TestFirstLoadFailureReachesError(t *testing.T) {
	s := NewSynced[string]()
	defer s.Close()

	token, _ := s.BeginRefresh()
	boom := errors.New("backend down")
	s.Fail(token, boom)

	snap := s.Snapshot()
	if snap.State != Errored {
		t.Errorf("state = %v, want error", snap.State)
	}
	if !errors.Is(snap.Err, boom) {
		t.Errorf("err = %v, want %v", snap.Err, boom)
	}

	// A retry goes back through loading.
	token, _ = s.BeginRefresh()
	if got := s.Snapshot().State; got != Loading {
		t.Errorf("retry state = %v, want loading", got)
	}
	s.Commit(token, "ok")
	if got := s.Snapshot().State; got != Ready {
		t.Errorf("state = %v, want ready", got)
	}
}

func TestFailureKeepsLastCommittedValue(t *testing.T) {
	s := NewSynced[[]string]()
	defer s.Close()

	token, _ := s.BeginRefresh()
	s.Commit(token, []string{"a", "b", "c"})

	token, _ = s.BeginRefresh()
	s.Fail(token, errors.New("refresh failed"))

	snap := s.Snapshot()
	if snap.State != Ready {
		t.Errorf("state = %v, want ready (value was committed before)", snap.State)
	}
	if len(snap.Data) != 3 {
		t.Errorf("data = %v, want the last committed value", snap.Data)
	}
	if snap.Err == nil {
		t.Error("the failure should still be recorded")
	}
}

func TestReadyStoreStaysReadyDuringRefresh(t *testing.T) {
	s := NewSynced[int]()
	defer s.Close()

	token, _ := s.BeginRefresh()
	s.Commit(token, 1)

	_, _ = s.BeginRefresh()
	snap := s.Snapshot()
	if snap.State != Ready || !snap.Busy {
		t.Errorf("during re-fetch: state=%v busy=%v, want ready/busy", snap.State, snap.Busy)
	}
}

func TestStaleCommitIsDiscarded(t *testing.T) {
	s := NewSynced[int]()
	defer s.Close()

	slow, _ := s.BeginRefresh()
	fast, _ := s.BeginMutation()

	if !s.Commit(fast, 2) {
		t.Fatal("newer token should commit")
	}
	if s.Commit(slow, 1) {
		t.Fatal("older token must be discarded after a newer commit")
	}

	snap := s.Snapshot()
	if snap.Data != 2 {
		t.Errorf("data = %d, want 2 (stale response must not clobber)", snap.Data)
	}
	if snap.Version != 1 {
		t.Errorf("version = %d, want 1 (discarded commit must not bump)", snap.Version)
	}
}

func TestStaleFailureIsDiscarded(t *testing.T) {
	s := NewSynced[int]()
	defer s.Close()

	slow, _ := s.BeginRefresh()
	fast, _ := s.BeginMutation()

	if !s.Commit(fast, 2) {
		t.Fatal("newer token should commit")
	}
	s.Fail(slow, errors.New("slow request timed out"))

	snap := s.Snapshot()
	if snap.Err != nil {
		t.Errorf("err = %v, want nil (a superseded failure must not surface)", snap.Err)
	}
	if snap.State != Ready {
		t.Errorf("state = %v, want ready", snap.State)
	}
	if snap.Busy {
		t.Error("both operations settled, store must not be busy")
	}
}

func TestVersionIsMonotonic(t *testing.T) {
	s := NewSynced[int]()
	defer s.Close()

	var last uint64
	for i := 0; i < 5; i++ {
		token, _ := s.BeginRefresh()
		s.Commit(token, i)
		v := s.Snapshot().Version
		if v <= last && i > 0 {
			t.Fatalf("version went from %d to %d", last, v)
		}
		last = v
	}
}

func TestResetReturnsToUninitialized(t *testing.T) {
	s := NewSynced[int]()
	defer s.Close()

	inflight, _ := s.BeginRefresh()
	token, _ := s.BeginRefresh()
	s.Commit(token, 7)

	s.Reset()
	snap := s.Snapshot()
	if snap.State != Uninitialized || snap.Data != 0 {
		t.Errorf("after reset: %+v", snap)
	}

	// The response that was in flight across the reset must be dropped.
	if s.Commit(inflight, 99) {
		t.Error("pre-reset in-flight commit must be discarded")
	}
}

func TestCloseRejectsFurtherWork(t *testing.T) {
	s := NewSynced[int]()
	token, _ := s.BeginRefresh()
	s.Close()

	if s.Commit(token, 1) {
		t.Error("commit after close should be discarded")
	}
	if _, err := s.BeginRefresh(); !errors.Is(err, ErrClosed) {
		t.Errorf("BeginRefresh after close = %v, want ErrClosed", err)
	}
}

func TestSubscribeDeliversLatestSnapshot(t *testing.T) {
	s := NewSynced[int]()
	defer s.Close()

	ch, cancel := s.Subscribe()
	defer cancel()

	first := <-ch
	if first.State != Uninitialized {
		t.Errorf("initial snapshot state = %v", first.State)
	}

	token, _ := s.BeginRefresh()
	s.Commit(token, 5)

	// Drain until the ready snapshot arrives; slow receivers may skip
	// intermediates but always see the latest.
	var got Snapshot[int]
	for snap := range ch {
		got = snap
		if snap.State == Ready {
			break
		}
	}
	if got.Data != 5 {
		t.Errorf("subscriber saw %d, want 5", got.Data)
	}
}

func TestConcurrentCommits(t *testing.T) {
	s := NewSynced[int]()
	defer s.Close()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			token, err := s.BeginRefresh()
			if err != nil {
				return
			}
			s.Commit(token, n)
		}(i)
	}
	wg.Wait()

	snap := s.Snapshot()
	if snap.State != Ready {
		t.Errorf("state = %v, want ready", snap.State)
	}
	if snap.Busy {
		t.Error("no operations are in flight")
	}
}
