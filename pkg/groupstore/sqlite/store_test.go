package sqlite

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestGroupStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "groups.db")
	log := zap.NewNop().Sugar()

	s, err := NewGroupStore(path, log)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	s.now = func() time.Time { return time.Unix(1700000000, 0) }

	if _, ok, err := s.LastGroup(); ok || err != nil {
		t.Fatalf("empty store: ok=%v err=%v", ok, err)
	}

	if err := s.SetLastGroup(1); err != nil {
		t.Fatal(err)
	}
	if err := s.SetLastGroup(3); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	// migrations must be a no-op the second time
	reopened, err := NewGroupStore(path, log)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	rec, ok, err := reopened.LastGroup()
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if rec.Group != 3 {
		t.Errorf("Group = %d, want 3", rec.Group)
	}
	if rec.UpdatedAt.Unix() != 1700000000 {
		t.Errorf("UpdatedAt = %v", rec.UpdatedAt)
	}
}

func TestDumpTables(t *testing.T) {
	s, err := NewGroupStore(filepath.Join(t.TempDir(), "groups.db"), zap.NewNop().Sugar())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	tables, err := s.querier.DumpTables(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	var found bool
	for _, stmt := range tables {
		if stmt != nil && strings.Contains(*stmt, "last_group") {
			found = true
		}
	}
	if !found {
		t.Errorf("last_group missing from schema dump")
	}
}
