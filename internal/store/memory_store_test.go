package store

import "testing"

func TestMemoryStore_RoundTrip(t *testing.T) {
	provider := NewMemoryProvider()
	ds := provider.DataStore("ns")

	if err := ds.SetString("k", "v"); err != nil {
		t.Fatalf("failed to set string: %v", err)
	}
	if got := ds.GetString("k", ""); got != "v" {
		t.Errorf("expected %q, got %q", "v", got)
	}

	if err := ds.SetMap("m", map[string]string{"a": "b"}); err != nil {
		t.Fatalf("failed to set map: %v", err)
	}
	if got := ds.GetMap("m"); got["a"] != "b" {
		t.Errorf("expected stored map, got %v", got)
	}

	if err := ds.Remove("k"); err != nil {
		t.Fatalf("failed to remove key: %v", err)
	}
	if ds.Contains("k") {
		t.Error("key should be absent after remove")
	}
	if !ds.Contains("m") {
		t.Error("map key should still be present")
	}
}

func TestMemoryStore_NamespacesAreIsolated(t *testing.T) {
	provider := NewMemoryProvider()

	if err := provider.DataStore("a").SetString("k", "v"); err != nil {
		t.Fatalf("failed to set string: %v", err)
	}
	if provider.DataStore("b").Contains("k") {
		t.Error("key leaked across namespaces")
	}
}
