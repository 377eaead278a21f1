package idgen

import (
	"sync"
	"testing"
)

func TestNew_ValidatesIDs(t *testing.T) {
	if _, err := New(0, 32); err != ErrInvalidWorkerID {
		t.Errorf("Expected ErrInvalidWorkerID, got %v", err)
	}
	if _, err := New(-1, 0); err != ErrInvalidDatacenterID {
		t.Errorf("Expected ErrInvalidDatacenterID, got %v", err)
	}
	if _, err := New(0, 0); err != nil {
		t.Errorf("Expected success, got %v", err)
	}
}

func TestNextID_Unique(t *testing.T) {
	s, err := New(1, 1)
	if err != nil {
		t.Fatal(err)
	}
	seen := make(map[int64]bool, 1000)
	for i := 0; i < 1000; i++ {
		id, err := s.NextID()
		if err != nil {
			t.Fatal(err)
		}
		if seen[id] {
			t.Fatalf("Duplicate id %d", id)
		}
		seen[id] = true
	}
}

func TestNextID_Concurrent(t *testing.T) {
	s, err := New(1, 1)
	if err != nil {
		t.Fatal(err)
	}

	const goroutines = 8
	const perGoroutine = 200

	var mu sync.Mutex
	seen := make(map[int64]bool, goroutines*perGoroutine)
	var wg sync.WaitGroup

	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				id, err := s.NextID()
				if err != nil {
					t.Error(err)
					return
				}
				mu.Lock()
				if seen[id] {
					t.Errorf("Duplicate id %d", id)
				}
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
}

func TestNextRequestID(t *testing.T) {
	s, _ := New(0, 0)
	first := s.NextRequestID()
	second := s.NextRequestID()
	if first == "" || first == second {
		t.Errorf("Expected distinct non-empty request ids, got %q and %q", first, second)
	}
}
