// Package repository defines the persistence boundary for users, elections
// and votes, together with the sentinel errors that higher layers use to
// distinguish failure scenarios.  Handlers translate these into HTTP
// statuses; the repository itself never depends on transport types.
package repository

import "errors"

// ErrNotFound is returned when a requested user or election does not exist.
var ErrNotFound = errors.New("not found")

// ErrUsernameExists is returned when a registration collides with an
// existing username.  The match is case-sensitive and exact, mirroring the
// unique key on users.username.
var ErrUsernameExists = errors.New("username already exists")

// ErrDuplicateVote is returned when a vote already exists for the same
// (election, voter) pair.  Both store implementations surface it from their
// uniqueness enforcement, so it is reliable under concurrent casts.
var ErrDuplicateVote = errors.New("voter has already voted in this election")
