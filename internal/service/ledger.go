// Package service holds the election ledger, the security core of the
// voting backend.  The ledger enforces one vote per voter per election,
// stores only encrypted ballots, and produces reproducible, fingerprinted
// tallies.  It talks to storage through repository.Store and never touches
// transport concerns; handlers map its sentinel errors to HTTP statuses.
package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/securevote/voting-service/internal/crypto"
	"github.com/securevote/voting-service/internal/model"
	"github.com/securevote/voting-service/internal/queue"
	"github.com/securevote/voting-service/internal/repository"
)

// ErrEncrypt is returned when sealing a ballot fails.  The cast is aborted
// and no vote row is persisted.
var ErrEncrypt = errors.New("ballot encryption failed")

// unavailableChoice is shown in a voter's own listing for any stored ballot
// that no longer decrypts, instead of dropping the row or failing the call.
const unavailableChoice = "<unavailable>"

// Ledger wires the vote store to the ballot cipher.  It is safe for
// concurrent use: the cipher is stateless and the store carries its own
// synchronization.
type Ledger struct {
	store  repository.Store
	cipher *crypto.BallotCipher
}

func NewLedger(store repository.Store, cipher *crypto.BallotCipher) *Ledger {
	return &Ledger{store: store, cipher: cipher}
}

// Results bundles a tally snapshot with its fingerprint.
type Results struct {
	Election string
	Counts   map[string]int
	Digest   string
}

// BallotView is one row of a voter's own vote listing.
type BallotView struct {
	ElectionID uint64
	Choice     string
	CastAt     time.Time
}

// CreateElection opens a new active election.
func (l *Ledger) CreateElection(ctx context.Context, title string) (model.Election, error) {
	return l.store.CreateElection(ctx, title)
}

// CloseElection deactivates an election.  Returns repository.ErrNotFound
// for an unknown id; closing twice is a no-op.
func (l *Ledger) CloseElection(ctx context.Context, id uint64) (model.Election, error) {
	if _, err := l.store.GetElection(ctx, id); err != nil {
		return model.Election{}, err
	}
	return l.store.CloseElection(ctx, id)
}

// ListElections returns elections newest first.
func (l *Ledger) ListElections(ctx context.Context, includeInactive bool) ([]model.Election, error) {
	return l.store.ListElections(ctx, includeInactive)
}

// CastVote records an encrypted ballot and returns the election's live
// per-choice tally.
//
// Failure order matters: an unknown or closed election is ErrNotFound, a
// repeat vote is ErrDuplicateVote, and a cipher failure is ErrEncrypt with
// nothing persisted.  The duplicate check delegated to the store's unique
// constraint is the authoritative one — the HasVoted pre-check only gives
// repeat voters a cheaper answer and can race harmlessly.
func (l *Ledger) CastVote(ctx context.Context, electionID, voterID uint64, choice string) (map[string]int, error) {
	election, err := l.store.GetElection(ctx, electionID)
	if err != nil {
		return nil, err
	}
	if !election.IsActive {
		return nil, repository.ErrNotFound
	}

	if voted, err := l.store.HasVoted(ctx, electionID, voterID); err != nil {
		return nil, err
	} else if voted {
		return nil, repository.ErrDuplicateVote
	}

	blob, err := l.cipher.Encrypt(choice)
	if err != nil {
		return nil, ErrEncrypt
	}

	if _, err := l.store.CreateVote(ctx, electionID, voterID, blob); err != nil {
		return nil, err
	}

	return l.tally(ctx, electionID)
}

// GetResults returns the tally and its digest for any election, active or
// closed.  Returns repository.ErrNotFound for an unknown id.
func (l *Ledger) GetResults(ctx context.Context, electionID uint64) (Results, error) {
	election, err := l.store.GetElection(ctx, electionID)
	if err != nil {
		return Results{}, err
	}
	counts, err := l.tally(ctx, electionID)
	if err != nil {
		return Results{}, err
	}
	return Results{
		Election: election.Title,
		Counts:   counts,
		Digest:   crypto.TallyDigest(counts),
	}, nil
}

// ListVoterBallots returns a voter's own ballots, newest first, decrypted
// for display.  Rows that fail to decrypt keep their place in the listing
// with a sentinel choice.
func (l *Ledger) ListVoterBallots(ctx context.Context, voterID uint64) ([]BallotView, error) {
	votes, err := l.store.ListVotesByVoter(ctx, voterID)
	if err != nil {
		return nil, err
	}
	out := make([]BallotView, 0, len(votes))
	for _, v := range votes {
		choice, err := l.cipher.Decrypt(v.EncryptedChoice)
		if err != nil {
			log.Printf("ledger: vote %d for voter %d failed to decrypt: %v", v.ID, voterID, err)
			choice = unavailableChoice
		}
		out = append(out, BallotView{ElectionID: v.ElectionID, Choice: choice, CastAt: v.CreatedAt})
	}
	return out, nil
}

// EnsureAdmin idempotently creates the admin account.  Called once at
// startup; an existing user with the same name is left untouched.
func (l *Ledger) EnsureAdmin(ctx context.Context, username, passwordHash string) error {
	if username == "" || passwordHash == "" {
		return nil
	}
	_, err := l.store.CreateUser(ctx, username, passwordHash, model.RoleAdmin)
	if errors.Is(err, repository.ErrUsernameExists) {
		return nil
	}
	if err == nil {
		go func() {
			_ = PublishAudit(context.Background(), queue.AuditEvent{Event: queue.EventAdminSeeded, Username: username})
		}()
	}
	return err
}

// tally decrypts every ballot for an election and aggregates per-choice
// counts.  A row that fails to decrypt is logged and skipped: one corrupted
// legacy row must not take an election's live count offline.
func (l *Ledger) tally(ctx context.Context, electionID uint64) (map[string]int, error) {
	votes, err := l.store.ListVotesByElection(ctx, electionID)
	if err != nil {
		return nil, err
	}
	counts := map[string]int{}
	for _, v := range votes {
		choice, err := l.cipher.Decrypt(v.EncryptedChoice)
		if err != nil {
			log.Printf("ledger: skipping undecryptable vote %d in election %d: %v", v.ID, electionID, err)
			continue
		}
		counts[choice]++
	}
	return counts, nil
}
