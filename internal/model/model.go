package model

import "time"

// Role values stored on a user.  Roles are fixed at creation; there is no
// promotion path, and no hierarchy between the two.
const (
	RoleVoter = "voter"
	RoleAdmin = "admin"
)

// User represents an application user record as stored in the `users`
// table.  Only the PBKDF2 hash of the password is ever persisted.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – unique username (case-sensitive, immutable).
//  PasswordHash – PBKDF2-SHA256 hashed password.
//  Role         – "voter" or "admin".
//  CreatedAt    – timestamp of creation.
type User struct {
	ID           uint64    // users.id
	Username     string    // users.username
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	CreatedAt    time.Time // users.created_at
}

// Election represents a row in the `elections` table.  IsActive starts
// true and transitions to false exactly once when the election is closed;
// it never becomes true again.
type Election struct {
	ID        uint64    // elections.id
	Title     string    // elections.title
	IsActive  bool      // elections.is_active
	CreatedAt time.Time // elections.created_at
}

// Vote models an entry in the `votes` table.  The choice is stored only as
// an AES-GCM ciphertext blob; the pair (ElectionID, VoterID) is unique
// across all time, enforced at the storage layer.  Votes are never updated
// or deleted.
type Vote struct {
	ID              uint64    // votes.id
	ElectionID      uint64    // votes.election_id
	VoterID         uint64    // votes.voter_id
	EncryptedChoice string    // votes.encrypted_choice (base64 nonce||ciphertext)
	CreatedAt       time.Time // votes.created_at
}
