// Package queue defines audit payloads exchanged over the message broker
// and the background consumer that turns them into an append-only log.
package queue

// AuditEvent is published for security-relevant actions (vote cast,
// election closed, admin seeded).  It carries enough information for
// downstream consumers to log or alert without querying the primary
// database.  Ballot choices are deliberately absent: the audit trail must
// never hold plaintext votes.
type AuditEvent struct {
	EventID    string `json:"event_id"` // random UUID per event
	Event      string `json:"event"`    // e.g. "vote_cast", "election_closed"
	ElectionID uint64 `json:"election_id,omitempty"`
	Username   string `json:"username,omitempty"`
	Title      string `json:"title,omitempty"`
	OccurredAt string `json:"occurred_at"` // RFC 3339, UTC
}

// Event names used across the service.
const (
	EventVoteCast       = "vote_cast"
	EventElectionMade   = "election_created"
	EventElectionClosed = "election_closed"
	EventUserRegistered = "user_registered"
	EventAdminSeeded    = "admin_seeded"
)
