// Package repository implements persistence for sessions and attendees
// over MySQL.  This file defines the sentinel errors shared by the
// repositories so that handlers can translate storage outcomes into
// distinct HTTP responses without inspecting SQL errors.  The four
// outcomes are never collapsed into each other: a code mismatch is
// ErrForbidden (ownership is secret, existence is not), a missing row is
// ErrNotFound, a full session is ErrSessionFull, and a malformed input
// is wrapped around ErrValidation.
package repository

import "errors"

// ErrNotFound is returned when the requested session or attendee does
// not exist.  Handlers translate it into HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when a presented management code does not
// exactly match the stored secret.  Handlers translate it into 403.
var ErrForbidden = errors.New("forbidden")

// ErrSessionFull is returned by the join transaction when the attendee
// count has reached max_participants.  Handlers translate it into 409.
var ErrSessionFull = errors.New("session is full")

// ErrValidation is the base of all input validation failures, such as a
// patch with no recognized fields.  Handlers translate it into 400.
var ErrValidation = errors.New("invalid input")
