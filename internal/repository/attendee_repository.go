package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rasanjula/hobby-planner/internal/access"
	"github.com/rasanjula/hobby-planner/internal/model"
	"github.com/rasanjula/hobby-planner/internal/token"
)

// AttendeeRepo provides data access to the attendees table, including
// the capacity-guarded join transaction.  Attendee rows live as long as
// their session; deleting a session cascades to its attendees.
type AttendeeRepo struct {
	db *sql.DB
}

// NewAttendeeRepo returns a new AttendeeRepo bound to the given database.
func NewAttendeeRepo(db *sql.DB) *AttendeeRepo { return &AttendeeRepo{db: db} }

// Join admits one attendee to a session, guaranteeing that the number of
// committed attendee rows never exceeds max_participants no matter how
// many joins race.  The whole operation is a single transaction:
//
//  1. lock the session row with SELECT ... FOR UPDATE, which serializes
//     concurrent joiners for the same session while leaving other
//     sessions untouched,
//  2. count current attendees,
//  3. abort with ErrSessionFull when count >= max_participants,
//  4. otherwise insert the new attendee and commit.
//
// The lock is held across the count-and-insert span; counting outside
// the lock would reopen the check-then-act race where two joiners both
// see a free slot.  A missing session returns ErrNotFound, and any
// storage failure rolls the transaction back so no partial row survives.
func (r *AttendeeRepo) Join(ctx context.Context, sessionID string, displayName *string) (*model.JoinResult, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var max int
	err = tx.QueryRowContext(ctx,
		`SELECT max_participants FROM sessions WHERE id = ? FOR UPDATE`, sessionID,
	).Scan(&max)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var count int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM attendees WHERE session_id = ?`, sessionID,
	).Scan(&count)
	if err != nil {
		return nil, err
	}
	if count >= max {
		return nil, ErrSessionFull
	}

	attendeeID := token.NewID()
	attendanceCode := token.NewCode()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO attendees (id, session_id, attendance_code, display_name) VALUES (?, ?, ?, ?)`,
		attendeeID, sessionID, attendanceCode, displayName,
	)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return &model.JoinResult{AttendeeID: attendeeID, AttendanceCode: attendanceCode}, nil
}

// Count returns the current attendee count and the session's capacity.
func (r *AttendeeRepo) Count(ctx context.Context, sessionID string) (count, max int, err error) {
	err = r.db.QueryRowContext(ctx,
		`SELECT max_participants FROM sessions WHERE id = ?`, sessionID,
	).Scan(&max)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, 0, ErrNotFound
	}
	if err != nil {
		return 0, 0, err
	}
	err = r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM attendees WHERE session_id = ?`, sessionID,
	).Scan(&count)
	if err != nil {
		return 0, 0, err
	}
	return count, max, nil
}

// List returns the attendees of a session in join order (created_at
// ascending, id as tiebreaker for rows sharing a timestamp).
// Attendance codes are never part of the projection; empty display
// names come back as "(anonymous)".
func (r *AttendeeRepo) List(ctx context.Context, sessionID string) ([]model.AttendeeListItem, error) {
	const q = `SELECT id, display_name, created_at
	           FROM attendees
	           WHERE session_id = ?
	           ORDER BY created_at ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, q, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.AttendeeListItem, 0)
	for rows.Next() {
		var (
			item model.AttendeeListItem
			name sql.NullString
		)
		if err := rows.Scan(&item.ID, &name, &item.CreatedAt); err != nil {
			return nil, err
		}
		item.DisplayName = name.String
		if item.DisplayName == "" {
			item.DisplayName = "(anonymous)"
		}
		item.CreatedAt = item.CreatedAt.UTC()
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// LeaveSelf removes one attendee by its own attendance code.  The
// deletion predicate matches id, session and code in a single statement,
// so a wrong code is indistinguishable from a missing attendee; both
// surface as ErrNotFound.  Repeating the call after a successful leave
// also returns ErrNotFound.
func (r *AttendeeRepo) LeaveSelf(ctx context.Context, sessionID, attendeeID, attendanceCode string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM attendees WHERE id = ? AND session_id = ? AND attendance_code = ?`,
		attendeeID, sessionID, attendanceCode,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Kick removes one attendee on behalf of the session owner.  The
// management code is verified against the session before the deletion;
// a mismatch is ErrForbidden, a missing session or attendee ErrNotFound.
func (r *AttendeeRepo) Kick(ctx context.Context, sessionID, attendeeID, manageCode string) error {
	var stored string
	err := r.db.QueryRowContext(ctx,
		`SELECT management_code FROM sessions WHERE id = ?`, sessionID,
	).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if !access.MatchCode(stored, manageCode) {
		return ErrForbidden
	}

	res, err := r.db.ExecContext(ctx,
		`DELETE FROM attendees WHERE id = ? AND session_id = ?`,
		attendeeID, sessionID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
