package repository

import (
	"errors"
	"testing"
	"time"
)

func TestBuildSessionPatchWhitelist(t *testing.T) {
	set, args, err := buildSessionPatch(map[string]any{
		"title":           "Evening badminton",
		"hobby":           "badminton",
		"management_code": "attacker-controlled",
		"id":              "attacker-controlled",
		"bogus":           true,
	})
	if err != nil {
		t.Fatalf("buildSessionPatch returned error: %v", err)
	}
	if set != "hobby = ?, title = ?" {
		t.Errorf("set clause = %q, want whitelisted fields in fixed order", set)
	}
	if len(args) != 2 || args[0] != "badminton" || args[1] != "Evening badminton" {
		t.Errorf("args = %v", args)
	}
}

func TestBuildSessionPatchNoFields(t *testing.T) {
	for _, fields := range []map[string]any{
		{},
		{"management_code": "x"},
		{"unknown": 1.0},
	} {
		if _, _, err := buildSessionPatch(fields); !errors.Is(err, ErrValidation) {
			t.Errorf("buildSessionPatch(%v) err = %v, want ErrValidation", fields, err)
		}
	}
}

func TestBuildSessionPatchDateTime(t *testing.T) {
	set, args, err := buildSessionPatch(map[string]any{
		"date_time": "2026-10-05T18:30:00+02:00",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set != "date_time = ?" {
		t.Errorf("set clause = %q", set)
	}
	got, ok := args[0].(time.Time)
	if !ok {
		t.Fatalf("arg type = %T, want time.Time", args[0])
	}
	want := time.Date(2026, 10, 5, 16, 30, 0, 0, time.UTC)
	if !got.Equal(want) || got.Location() != time.UTC {
		t.Errorf("date_time = %v, want UTC-normalized %v", got, want)
	}

	if _, _, err := buildSessionPatch(map[string]any{"date_time": "tomorrow"}); !errors.Is(err, ErrValidation) {
		t.Errorf("malformed date_time err = %v, want ErrValidation", err)
	}
}

func TestBuildSessionPatchMaxParticipants(t *testing.T) {
	_, args, err := buildSessionPatch(map[string]any{"max_participants": 8.0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if args[0] != 8 {
		t.Errorf("max_participants arg = %v (%T), want int 8", args[0], args[0])
	}

	for _, bad := range []any{0.0, -3.0, 2.5, "ten", nil} {
		if _, _, err := buildSessionPatch(map[string]any{"max_participants": bad}); !errors.Is(err, ErrValidation) {
			t.Errorf("max_participants=%v err = %v, want ErrValidation", bad, err)
		}
	}
}

func TestBuildSessionPatchType(t *testing.T) {
	for _, ok := range []string{"public", "private"} {
		if _, _, err := buildSessionPatch(map[string]any{"type": ok}); err != nil {
			t.Errorf("type=%q unexpected error: %v", ok, err)
		}
	}
	for _, bad := range []any{"PUBLIC", "hidden", 1.0, nil} {
		if _, _, err := buildSessionPatch(map[string]any{"type": bad}); !errors.Is(err, ErrValidation) {
			t.Errorf("type=%v err = %v, want ErrValidation", bad, err)
		}
	}
}

func TestBuildSessionPatchNullables(t *testing.T) {
	set, args, err := buildSessionPatch(map[string]any{
		"description":   nil,
		"location_text": "Riverside court",
		"lat":           60.1699,
		"lng":           nil,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set != "description = ?, location_text = ?, lat = ?, lng = ?" {
		t.Errorf("set clause = %q", set)
	}
	if args[0] != nil {
		t.Errorf("description arg = %v, want nil", args[0])
	}
	if args[1] != "Riverside court" {
		t.Errorf("location_text arg = %v", args[1])
	}
	if args[2] != 60.1699 {
		t.Errorf("lat arg = %v", args[2])
	}
	if args[3] != nil {
		t.Errorf("lng arg = %v, want nil", args[3])
	}

	// hobby and title may not be blanked out
	for _, bad := range []any{nil, "", "   "} {
		if _, _, err := buildSessionPatch(map[string]any{"title": bad}); !errors.Is(err, ErrValidation) {
			t.Errorf("title=%v err = %v, want ErrValidation", bad, err)
		}
	}
}
