package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/securevote/voting-service/internal/model"
)

// SQLStore implements Store on top of MySQL.
type SQLStore struct{ DB *sql.DB }

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{DB: db} }

// isDuplicateKey reports whether err is a MySQL duplicate-entry violation
// (error 1062).  Uniqueness lives in the schema, so a concurrent insert
// losing the race shows up here rather than in any application-level check.
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}

// CreateUser inserts a user and returns the stored record.
func (s *SQLStore) CreateUser(ctx context.Context, username, passwordHash, role string) (model.User, error) {
	res, err := s.DB.ExecContext(ctx,
		"INSERT INTO users (username, password_hash, role) VALUES (?,?,?)",
		username, passwordHash, role)
	if err != nil {
		if isDuplicateKey(err) {
			return model.User{}, ErrUsernameExists
		}
		return model.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, err
	}
	return s.getUser(ctx, "id=?", uint64(id))
}

// GetUserByUsername fetches a user by exact, case-sensitive username match.
func (s *SQLStore) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	return s.getUser(ctx, "username=? COLLATE utf8mb4_bin", username)
}

func (s *SQLStore) getUser(ctx context.Context, where string, arg interface{}) (model.User, error) {
	var u model.User
	err := s.DB.QueryRowContext(ctx,
		"SELECT id,username,password_hash,role,created_at FROM users WHERE "+where+" LIMIT 1",
		arg).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// CreateElection inserts an active election and returns the stored record.
func (s *SQLStore) CreateElection(ctx context.Context, title string) (model.Election, error) {
	res, err := s.DB.ExecContext(ctx,
		"INSERT INTO elections (title, is_active) VALUES (?, 1)", title)
	if err != nil {
		return model.Election{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Election{}, err
	}
	return s.GetElection(ctx, uint64(id))
}

// GetElection fetches an election by id.
func (s *SQLStore) GetElection(ctx context.Context, id uint64) (model.Election, error) {
	var e model.Election
	err := s.DB.QueryRowContext(ctx,
		"SELECT id,title,is_active,created_at FROM elections WHERE id=? LIMIT 1",
		id).Scan(&e.ID, &e.Title, &e.IsActive, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return model.Election{}, ErrNotFound
	}
	return e, err
}

// ListElections returns elections newest first, optionally including closed ones.
func (s *SQLStore) ListElections(ctx context.Context, includeInactive bool) ([]model.Election, error) {
	q := "SELECT id,title,is_active,created_at FROM elections"
	if !includeInactive {
		q += " WHERE is_active=1"
	}
	q += " ORDER BY created_at DESC, id DESC"
	rows, err := s.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Election{}
	for rows.Next() {
		var e model.Election
		if err := rows.Scan(&e.ID, &e.Title, &e.IsActive, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// CloseElection marks an election inactive and returns the updated record.
// Closing an already closed election is a no-op, not an error.
func (s *SQLStore) CloseElection(ctx context.Context, id uint64) (model.Election, error) {
	// Zero rows affected means missing or already inactive; GetElection
	// disambiguates by returning ErrNotFound for the former.
	if _, err := s.DB.ExecContext(ctx, "UPDATE elections SET is_active=0 WHERE id=?", id); err != nil {
		return model.Election{}, err
	}
	return s.GetElection(ctx, id)
}

// CreateVote inserts an encrypted ballot.  The unique key on
// (election_id, voter_id) makes this safe against concurrent casts: exactly
// one insert wins, the rest observe ErrDuplicateVote.
func (s *SQLStore) CreateVote(ctx context.Context, electionID, voterID uint64, encryptedChoice string) (model.Vote, error) {
	res, err := s.DB.ExecContext(ctx,
		"INSERT INTO votes (election_id, voter_id, encrypted_choice) VALUES (?,?,?)",
		electionID, voterID, encryptedChoice)
	if err != nil {
		if isDuplicateKey(err) {
			return model.Vote{}, ErrDuplicateVote
		}
		return model.Vote{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Vote{}, err
	}
	var v model.Vote
	err = s.DB.QueryRowContext(ctx,
		"SELECT id,election_id,voter_id,encrypted_choice,created_at FROM votes WHERE id=? LIMIT 1",
		uint64(id)).Scan(&v.ID, &v.ElectionID, &v.VoterID, &v.EncryptedChoice, &v.CreatedAt)
	return v, err
}

// HasVoted reports whether a vote exists for the pair.  This is a fast-path
// check only; correctness rests on the unique key in CreateVote.
func (s *SQLStore) HasVoted(ctx context.Context, electionID, voterID uint64) (bool, error) {
	var one int
	err := s.DB.QueryRowContext(ctx,
		"SELECT 1 FROM votes WHERE election_id=? AND voter_id=? LIMIT 1",
		electionID, voterID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

// ListVotesByElection returns every ballot cast in an election.
func (s *SQLStore) ListVotesByElection(ctx context.Context, electionID uint64) ([]model.Vote, error) {
	return s.listVotes(ctx,
		"SELECT id,election_id,voter_id,encrypted_choice,created_at FROM votes WHERE election_id=? ORDER BY id",
		electionID)
}

// ListVotesByVoter returns a voter's ballots, newest first.
func (s *SQLStore) ListVotesByVoter(ctx context.Context, voterID uint64) ([]model.Vote, error) {
	return s.listVotes(ctx,
		"SELECT id,election_id,voter_id,encrypted_choice,created_at FROM votes WHERE voter_id=? ORDER BY created_at DESC, id DESC",
		voterID)
}

func (s *SQLStore) listVotes(ctx context.Context, q string, arg interface{}) ([]model.Vote, error) {
	rows, err := s.DB.QueryContext(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Vote{}
	for rows.Next() {
		var v model.Vote
		if err := rows.Scan(&v.ID, &v.ElectionID, &v.VoterID, &v.EncryptedChoice, &v.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// Ping verifies the database is reachable; used by the readiness probe.
func (s *SQLStore) Ping(ctx context.Context) error {
	var one int
	return s.DB.QueryRowContext(ctx, "SELECT 1").Scan(&one)
}
