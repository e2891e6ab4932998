package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/securevote/voting-service/internal/model"
)

// MemoryStore is an in-process Store implementation used by tests and local
// development.  A single mutex guards all maps; the same uniqueness rules
// the SQL schema enforces (users.username, votes (election_id, voter_id))
// are enforced here inside the critical section, so concurrent CreateVote
// calls for the same pair still resolve to one winner.
type MemoryStore struct {
	mu sync.Mutex

	users     map[uint64]model.User
	elections map[uint64]model.Election
	votes     map[uint64]model.Vote

	byUsername map[string]uint64
	byBallot   map[[2]uint64]uint64 // (election_id, voter_id) -> vote id

	nextUser     uint64
	nextElection uint64
	nextVote     uint64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:      map[uint64]model.User{},
		elections:  map[uint64]model.Election{},
		votes:      map[uint64]model.Vote{},
		byUsername: map[string]uint64{},
		byBallot:   map[[2]uint64]uint64{},
	}
}

func (m *MemoryStore) CreateUser(_ context.Context, username, passwordHash, role string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byUsername[username]; ok {
		return model.User{}, ErrUsernameExists
	}
	m.nextUser++
	u := model.User{
		ID:           m.nextUser,
		Username:     username,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	m.users[u.ID] = u
	m.byUsername[username] = u.ID
	return u, nil
}

func (m *MemoryStore) GetUserByUsername(_ context.Context, username string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byUsername[username]
	if !ok {
		return model.User{}, ErrNotFound
	}
	return m.users[id], nil
}

func (m *MemoryStore) CreateElection(_ context.Context, title string) (model.Election, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextElection++
	e := model.Election{
		ID:        m.nextElection,
		Title:     title,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
	m.elections[e.ID] = e
	return e, nil
}

func (m *MemoryStore) GetElection(_ context.Context, id uint64) (model.Election, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.elections[id]
	if !ok {
		return model.Election{}, ErrNotFound
	}
	return e, nil
}

func (m *MemoryStore) ListElections(_ context.Context, includeInactive bool) ([]model.Election, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Election{}
	for _, e := range m.elections {
		if includeInactive || e.IsActive {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *MemoryStore) CloseElection(_ context.Context, id uint64) (model.Election, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.elections[id]
	if !ok {
		return model.Election{}, ErrNotFound
	}
	e.IsActive = false
	m.elections[id] = e
	return e, nil
}

func (m *MemoryStore) CreateVote(_ context.Context, electionID, voterID uint64, encryptedChoice string) (model.Vote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := [2]uint64{electionID, voterID}
	if _, ok := m.byBallot[key]; ok {
		return model.Vote{}, ErrDuplicateVote
	}
	m.nextVote++
	v := model.Vote{
		ID:              m.nextVote,
		ElectionID:      electionID,
		VoterID:         voterID,
		EncryptedChoice: encryptedChoice,
		CreatedAt:       time.Now().UTC(),
	}
	m.votes[v.ID] = v
	m.byBallot[key] = v.ID
	return v, nil
}

func (m *MemoryStore) HasVoted(_ context.Context, electionID, voterID uint64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.byBallot[[2]uint64{electionID, voterID}]
	return ok, nil
}

func (m *MemoryStore) ListVotesByElection(_ context.Context, electionID uint64) ([]model.Vote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Vote{}
	for _, v := range m.votes {
		if v.ElectionID == electionID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) ListVotesByVoter(_ context.Context, voterID uint64) ([]model.Vote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Vote{}
	for _, v := range m.votes {
		if v.VoterID == voterID {
			out = append(out, v)
		}
	}
	// Newest first; IDs break ties for votes created in the same instant.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *MemoryStore) Ping(_ context.Context) error { return nil }
