package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestMemoryStore_UsernameUniqueness(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if _, err := s.CreateUser(ctx, "alice", "h", "voter"); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if _, err := s.CreateUser(ctx, "alice", "h2", "voter"); !errors.Is(err, ErrUsernameExists) {
		t.Errorf("duplicate CreateUser() error = %v, want ErrUsernameExists", err)
	}
	// Case-sensitive: a different casing is a different user.
	if _, err := s.CreateUser(ctx, "Alice", "h", "voter"); err != nil {
		t.Errorf("CreateUser(Alice) error = %v, want nil", err)
	}
}

func TestMemoryStore_ConcurrentVoteInsert(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	e, err := s.CreateElection(ctx, "Race")
	if err != nil {
		t.Fatalf("CreateElection() error = %v", err)
	}
	u, err := s.CreateUser(ctx, "alice", "h", "voter")
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	const n = 64
	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.CreateVote(ctx, e.ID, u.ID, "blob"); err == nil {
				mu.Lock()
				winners++
				mu.Unlock()
			} else if !errors.Is(err, ErrDuplicateVote) {
				t.Errorf("CreateVote() error = %v", err)
			}
		}()
	}
	wg.Wait()
	if winners != 1 {
		t.Errorf("%d inserts won, want exactly 1", winners)
	}
}

func TestMemoryStore_ElectionListingOrder(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	first, _ := s.CreateElection(ctx, "First")
	second, _ := s.CreateElection(ctx, "Second")
	if _, err := s.CloseElection(ctx, first.ID); err != nil {
		t.Fatalf("CloseElection() error = %v", err)
	}

	active, err := s.ListElections(ctx, false)
	if err != nil {
		t.Fatalf("ListElections() error = %v", err)
	}
	if len(active) != 1 || active[0].ID != second.ID {
		t.Errorf("active listing = %v, want only election %d", active, second.ID)
	}

	all, err := s.ListElections(ctx, true)
	if err != nil {
		t.Fatalf("ListElections(true) error = %v", err)
	}
	if len(all) != 2 || all[0].ID != second.ID || all[1].ID != first.ID {
		t.Errorf("full listing = %v, want newest first", all)
	}
}

func TestMemoryStore_GetUnknown(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if _, err := s.GetUserByUsername(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetUserByUsername(unknown) error = %v, want ErrNotFound", err)
	}
	if _, err := s.GetElection(ctx, 42); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetElection(unknown) error = %v, want ErrNotFound", err)
	}
	if _, err := s.CloseElection(ctx, 42); !errors.Is(err, ErrNotFound) {
		t.Errorf("CloseElection(unknown) error = %v, want ErrNotFound", err)
	}
}
