package id_test

import (
	"strings"
	"testing"

	"github.com/xraph/vesting/id"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		newFn  func() id.ID
		prefix string
	}{
		{"ScheduleID", id.NewScheduleID, "vsch_"},
		{"ReleaseID", id.NewReleaseID, "rls_"},
		{"RevocationID", id.NewRevocationID, "rvk_"},
		{"GrantID", id.NewGrantID, "grant_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.newFn().String()
			if !strings.HasPrefix(got, tt.prefix) {
				t.Errorf("expected prefix %q, got %q", tt.prefix, got)
			}
		})
	}
}

func TestNew(t *testing.T) {
	i := id.New(id.PrefixSchedule)
	if i.IsNil() {
		t.Fatal("expected non-nil ID")
	}
	if i.Prefix() != id.PrefixSchedule {
		t.Errorf("expected prefix %q, got %q", id.PrefixSchedule, i.Prefix())
	}
}

func TestParseRoundTrip(t *testing.T) {
	orig := id.NewScheduleID()

	parsed, err := id.Parse(orig.String())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.String() != orig.String() {
		t.Errorf("round trip: got %q, want %q", parsed.String(), orig.String())
	}
}

func TestParseWithPrefix(t *testing.T) {
	sid := id.NewScheduleID()

	if _, err := id.ParseScheduleID(sid.String()); err != nil {
		t.Errorf("matching prefix: %v", err)
	}
	if _, err := id.ParseReleaseID(sid.String()); err == nil {
		t.Error("expected error for mismatched prefix")
	}
	if _, err := id.Parse("not-a-typeid"); err == nil {
		t.Error("expected error for malformed input")
	}
}

func TestIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		s := id.NewScheduleID().String()
		if seen[s] {
			t.Fatalf("duplicate ID generated: %s", s)
		}
		seen[s] = true
	}
}

func TestMarshalText(t *testing.T) {
	orig := id.NewReleaseID()

	data, err := orig.MarshalText()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var parsed id.ID
	if err := parsed.UnmarshalText(data); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if parsed.String() != orig.String() {
		t.Errorf("round trip: got %q, want %q", parsed.String(), orig.String())
	}
}
