package sqlite

import "testing"

func TestUpdatedURL(t *testing.T) {
	normalizer := New()
	cases := []struct {
		raw  string
		want string
	}{
		{"sqlite://orders.db", "file:orders.db"},
		{"sqlite:///var/lib/app/orders.db", "file:/var/lib/app/orders.db"},
		{"sqlite://orders.db?mode=memory&cache=shared", "file:orders.db?mode=memory&cache=shared"},
		{"sqlite://file:orders.db", "file:orders.db"},
		{"file:orders.db", "file:orders.db"},
	}
	for _, tc := range cases {
		got, err := normalizer.UpdatedURL(tc.raw)
		if err != nil {
			t.Fatalf("%s: %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.raw, tc.want, got)
		}
	}
}

func TestUpdatedURL_EmptyPathRejected(t *testing.T) {
	normalizer := New()
	if _, err := normalizer.UpdatedURL("sqlite://"); err == nil {
		t.Fatalf("expected empty path to be rejected")
	}
	if _, err := normalizer.UpdatedURL("   "); err == nil {
		t.Fatalf("expected blank url to be rejected")
	}
}

func TestRequiresBaseDirOverride(t *testing.T) {
	if !New().RequiresBaseDirOverride() {
		t.Fatalf("sqlite normalizer must request the base dir override")
	}
}
