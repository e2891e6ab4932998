package repository

import (
	"context"

	"github.com/securevote/voting-service/internal/model"
)

// Store is the persistence interface consumed by services and handlers.
// Two implementations exist: SQLStore backed by MySQL, and MemoryStore used
// by tests.  Every implementation must enforce the uniqueness of
// users.username and of the (election_id, voter_id) pair on votes at the
// storage level, not merely in a check-then-insert sequence, so that the
// sentinels in errors.go hold under arbitrary interleaving.
type Store interface {
	CreateUser(ctx context.Context, username, passwordHash, role string) (model.User, error)
	GetUserByUsername(ctx context.Context, username string) (model.User, error)

	CreateElection(ctx context.Context, title string) (model.Election, error)
	GetElection(ctx context.Context, id uint64) (model.Election, error)
	ListElections(ctx context.Context, includeInactive bool) ([]model.Election, error)
	CloseElection(ctx context.Context, id uint64) (model.Election, error)

	CreateVote(ctx context.Context, electionID, voterID uint64, encryptedChoice string) (model.Vote, error)
	HasVoted(ctx context.Context, electionID, voterID uint64) (bool, error)
	ListVotesByElection(ctx context.Context, electionID uint64) ([]model.Vote, error)
	ListVotesByVoter(ctx context.Context, voterID uint64) ([]model.Vote, error)

	Ping(ctx context.Context) error
}
