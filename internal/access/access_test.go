package access

import (
	"testing"

	"github.com/rasanjula/hobby-planner/internal/model"
)

func TestMatchCode(t *testing.T) {
	tests := []struct {
		name      string
		stored    string
		presented string
		want      bool
	}{
		{"exact match", "a1B2c3D4e5F6g7H8", "a1B2c3D4e5F6g7H8", true},
		{"mismatch", "a1B2c3D4e5F6g7H8", "wrongwrongwrong1", false},
		{"prefix is not enough", "a1B2c3D4e5F6g7H8", "a1B2c3D4", false},
		{"case sensitive", "abcdef", "ABCDEF", false},
		{"empty presented never matches", "abcdef", "", false},
		{"empty presented against empty stored", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchCode(tt.stored, tt.presented); got != tt.want {
				t.Errorf("MatchCode(%q, %q) = %v, want %v", tt.stored, tt.presented, got, tt.want)
			}
		})
	}
}

func TestCanListAttendees(t *testing.T) {
	const code = "s3cr3tManageCode"

	if !CanListAttendees(model.SessionPublic, code, "") {
		t.Error("public session should be listable without a code")
	}
	if !CanListAttendees(model.SessionPublic, code, "garbage") {
		t.Error("public session should be listable regardless of presented code")
	}
	if CanListAttendees(model.SessionPrivate, code, "") {
		t.Error("private session must not be listable without a code")
	}
	if CanListAttendees(model.SessionPrivate, code, "garbage") {
		t.Error("private session must not be listable with a wrong code")
	}
	if !CanListAttendees(model.SessionPrivate, code, code) {
		t.Error("private session should be listable with the management code")
	}
}
