package core

import (
	"database/sql"
	"testing"
)

func TestIsolationLevel_SymbolicTable(t *testing.T) {
	cases := []struct {
		symbolic string
		want     sql.IsolationLevel
	}{
		{IsolationNone, sql.LevelDefault},
		{IsolationReadUncommitted, sql.LevelReadUncommitted},
		{IsolationReadCommitted, sql.LevelReadCommitted},
		{IsolationRepeatableRead, sql.LevelRepeatableRead},
		{IsolationSerializable, sql.LevelSerializable},
		{"read_committed", sql.LevelReadCommitted},
	}
	for _, tc := range cases {
		level, err := IsolationLevel(tc.symbolic)
		if err != nil {
			t.Fatalf("%s: %v", tc.symbolic, err)
		}
		if level != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.symbolic, tc.want, level)
		}
	}
}

func TestIsolationLevel_Unrecognized(t *testing.T) {
	_, err := IsolationLevel("CHAOS")
	if !IsUnsupportedIsolationLevel(err) {
		t.Fatalf("expected unsupported isolation error, got %v", err)
	}
}

func TestSetDefaultTransactionIsolation_EmptyIsNoOp(t *testing.T) {
	source := newTestSource(t, Config{Name: "orders"}, WithPoolEngine(&fakeEngine{}))

	if err := source.SetDefaultTransactionIsolation(IsolationSerializable); err != nil {
		t.Fatalf("set isolation: %v", err)
	}
	if err := source.SetDefaultTransactionIsolation(""); err != nil {
		t.Fatalf("empty symbolic should be a no-op: %v", err)
	}
	if err := source.SetDefaultTransactionIsolation("   "); err != nil {
		t.Fatalf("blank symbolic should be a no-op: %v", err)
	}

	level, ok := source.DefaultTransactionIsolation()
	if !ok || level != sql.LevelSerializable {
		t.Fatalf("expected serializable retained, got %v (set=%v)", level, ok)
	}
}

func TestSetDefaultTransactionIsolation_UnrecognizedFailsSetterOnly(t *testing.T) {
	source := newTestSource(t, Config{Name: "orders"}, WithPoolEngine(&fakeEngine{}))

	if err := source.SetDefaultTransactionIsolation(IsolationReadCommitted); err != nil {
		t.Fatalf("set isolation: %v", err)
	}
	if err := source.SetDefaultTransactionIsolation("SNAPSHOT_CHAOS"); !IsUnsupportedIsolationLevel(err) {
		t.Fatalf("expected unsupported isolation error, got %v", err)
	}

	level, ok := source.DefaultTransactionIsolation()
	if !ok || level != sql.LevelReadCommitted {
		t.Fatalf("expected previous level retained, got %v (set=%v)", level, ok)
	}
}
