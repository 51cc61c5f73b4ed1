package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rasanjula/hobby-planner/internal/access"
	"github.com/rasanjula/hobby-planner/internal/model"
	"github.com/rasanjula/hobby-planner/internal/token"
)

// SessionRepo provides CRUD operations for sessions.  Read operations
// return the public projection only; the secret columns are loaded
// exclusively by the ownership checks inside Patch and Delete and by the
// attendee-listing visibility check, and are never handed to callers.
// All timestamps are stored in UTC.
type SessionRepo struct {
	db *sql.DB
}

// NewSessionRepo returns a new SessionRepo bound to the given database.
func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{db: db} }

// publicColumns selects exactly the fields of the public projection.
// management_code and private_url_code are never part of it.
const publicColumns = `id, hobby, title, description, date_time, max_participants, type, location_text, lat, lng`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*model.Session, error) {
	var (
		s            model.Session
		description  sql.NullString
		locationText sql.NullString
		lat, lng     sql.NullFloat64
	)
	err := row.Scan(
		&s.ID, &s.Hobby, &s.Title, &description, &s.DateTime,
		&s.MaxParticipants, &s.Type, &locationText, &lat, &lng,
	)
	if err != nil {
		return nil, err
	}
	if description.Valid {
		s.Description = &description.String
	}
	if locationText.Valid {
		s.LocationText = &locationText.String
	}
	if lat.Valid {
		s.Lat = &lat.Float64
	}
	if lng.Valid {
		s.Lng = &lng.Float64
	}
	s.DateTime = s.DateTime.UTC()
	return &s, nil
}

// ListPublic returns all public sessions ordered by date_time descending
// (newest first).  Private sessions never appear here.
func (r *SessionRepo) ListPublic(ctx context.Context) ([]model.Session, error) {
	const q = `SELECT ` + publicColumns + `
	           FROM sessions
	           WHERE type = 'public'
	           ORDER BY date_time DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]model.Session, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// GetByID returns the public projection of a session, or ErrNotFound.
func (r *SessionRepo) GetByID(ctx context.Context, id string) (*model.Session, error) {
	const q = `SELECT ` + publicColumns + ` FROM sessions WHERE id = ?`
	s, err := scanSession(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return s, err
}

// GetByPrivateURLCode is the discovery path for private sessions shared
// via link.  Same projection as GetByID, keyed by the private-url code.
func (r *SessionRepo) GetByPrivateURLCode(ctx context.Context, code string) (*model.Session, error) {
	const q = `SELECT ` + publicColumns + ` FROM sessions WHERE private_url_code = ?`
	s, err := scanSession(r.db.QueryRowContext(ctx, q, code))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return s, err
}

// CreateSessionInput carries the already-validated fields for a new
// session.  DateTime must be UTC-normalized by the caller.
type CreateSessionInput struct {
	Hobby           string
	Title           string
	Description     *string
	DateTime        time.Time
	MaxParticipants int
	Type            model.SessionType
	LocationText    *string
	Lat             *float64
	Lng             *float64
}

// Create persists a new session.  The id and management code are always
// generated; the private-url code only when the session is private.  The
// returned secrets are shown to the creator exactly once.
func (r *SessionRepo) Create(ctx context.Context, in CreateSessionInput) (*model.SessionSecrets, error) {
	id := token.NewID()
	managementCode := token.NewCode()
	var privateURLCode *string
	if in.Type == model.SessionPrivate {
		c := token.NewCode()
		privateURLCode = &c
	}

	const q = `INSERT INTO sessions
	           (id, hobby, title, description, date_time, max_participants, type,
	            location_text, lat, lng, management_code, private_url_code)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q,
		id, in.Hobby, in.Title, in.Description, in.DateTime.UTC(),
		in.MaxParticipants, in.Type, in.LocationText, in.Lat, in.Lng,
		managementCode, privateURLCode,
	)
	if err != nil {
		return nil, err
	}

	return &model.SessionSecrets{
		ID:             id,
		ManagementCode: managementCode,
		PrivateURLCode: privateURLCode,
		ManageURL:      fmt.Sprintf("/session/%s/manage?code=%s", id, managementCode),
	}, nil
}

// sessionPatchFields is the whitelist of mutable columns, in the order
// they are applied.  Anything else in a patch body is ignored.
var sessionPatchFields = []string{
	"hobby", "title", "description", "date_time", "max_participants",
	"type", "location_text", "lat", "lng",
}

// buildSessionPatch turns a decoded patch body into a SET clause and its
// arguments.  Only whitelisted fields present in the body are applied;
// each is validated on the way through.  A body with zero recognized
// fields is a validation error.  The function is pure so the whitelist
// and coercion rules can be tested without a database.
func buildSessionPatch(fields map[string]any) (string, []any, error) {
	var (
		sets []string
		args []any
	)
	for _, name := range sessionPatchFields {
		raw, ok := fields[name]
		if !ok {
			continue
		}
		val, err := coercePatchValue(name, raw)
		if err != nil {
			return "", nil, err
		}
		sets = append(sets, name+" = ?")
		args = append(args, val)
	}
	if len(sets) == 0 {
		return "", nil, fmt.Errorf("%w: no valid fields to update", ErrValidation)
	}
	return strings.Join(sets, ", "), args, nil
}

// coercePatchValue validates a single whitelisted patch field and
// converts it to its storage representation.  Nullable fields accept
// explicit null; required fields reject it.
func coercePatchValue(name string, raw any) (any, error) {
	switch name {
	case "hobby", "title":
		s, ok := raw.(string)
		if !ok || strings.TrimSpace(s) == "" {
			return nil, fmt.Errorf("%w: %s must be a non-empty string", ErrValidation, name)
		}
		return s, nil
	case "description", "location_text":
		if raw == nil {
			return nil, nil
		}
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s must be a string or null", ErrValidation, name)
		}
		return s, nil
	case "date_time":
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("%w: date_time must be an RFC 3339 string", ErrValidation)
		}
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, fmt.Errorf("%w: date_time must be an RFC 3339 string", ErrValidation)
		}
		return t.UTC(), nil
	case "max_participants":
		f, ok := raw.(float64)
		if !ok || f < 1 || f != math.Trunc(f) {
			return nil, fmt.Errorf("%w: max_participants must be a positive integer", ErrValidation)
		}
		return int(f), nil
	case "type":
		s, _ := raw.(string)
		if !model.SessionType(s).Valid() {
			return nil, fmt.Errorf("%w: type must be 'public' or 'private'", ErrValidation)
		}
		return s, nil
	case "lat", "lng":
		if raw == nil {
			return nil, nil
		}
		f, ok := raw.(float64)
		if !ok {
			return nil, fmt.Errorf("%w: %s must be a number or null", ErrValidation, name)
		}
		return f, nil
	}
	return nil, fmt.Errorf("%w: unrecognized field %s", ErrValidation, name)
}

// Patch applies a partial update to a session after verifying the
// management code.  The code check and the update run in one transaction
// with the session row locked, so a concurrent delete or code comparison
// cannot interleave with the write.  Returns the updated projection.
func (r *SessionRepo) Patch(ctx context.Context, id, manageCode string, fields map[string]any) (*model.Session, error) {
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

	var stored string
	err = tx.QueryRowContext(ctx,
		`SELECT management_code FROM sessions WHERE id = ? FOR UPDATE`, id,
	).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !access.MatchCode(stored, manageCode) {
		return nil, ErrForbidden
	}

	// Existence and ownership are settled before the body is examined,
	// so a malformed patch on a foreign or missing session reports
	// NotFound or Forbidden, not a validation error.
	setClause, args, err := buildSessionPatch(fields)
	if err != nil {
		return nil, err
	}

	args = append(args, id)
	if _, err := tx.ExecContext(ctx, `UPDATE sessions SET `+setClause+` WHERE id = ?`, args...); err != nil {
		return nil, err
	}

	updated, err := scanSession(tx.QueryRowContext(ctx,
		`SELECT `+publicColumns+` FROM sessions WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return updated, nil
}

// Delete removes a session after verifying the management code.
// Attendees are removed by the FK cascade.  Same locking discipline as
// Patch.
func (r *SessionRepo) Delete(ctx context.Context, id, manageCode string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var stored string
	err = tx.QueryRowContext(ctx,
		`SELECT management_code FROM sessions WHERE id = ? FOR UPDATE`, id,
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

	if _, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetVisibility loads the fields needed for the attendee-listing
// visibility decision.  The management code is returned to the caller
// only for comparison and must never be serialized.
func (r *SessionRepo) GetVisibility(ctx context.Context, id string) (model.SessionType, string, error) {
	var (
		t    model.SessionType
		code string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT type, management_code FROM sessions WHERE id = ?`, id,
	).Scan(&t, &code)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", ErrNotFound
	}
	if err != nil {
		return "", "", err
	}
	return t, code, nil
}
