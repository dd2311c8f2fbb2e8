package audience

import (
	"testing"

	"github.com/avh-labs/audiencehub/internal/logging"
	"github.com/avh-labs/audiencehub/internal/store"
)

// recordingProvider wraps a memory provider and counts every store operation,
// so tests can assert which fields ever touch persistence.
type recordingProvider struct {
	inner *store.MemoryProvider
	ops   map[string]int
}

func newRecordingProvider() *recordingProvider {
	return &recordingProvider{
		inner: store.NewMemoryProvider(),
		ops:   make(map[string]int),
	}
}

func (p *recordingProvider) DataStore(name string) store.Store {
	return &recordingStore{inner: p.inner.DataStore(name), ops: p.ops}
}

func (p *recordingProvider) totalOps() int {
	total := 0
	for _, n := range p.ops {
		total += n
	}
	return total
}

type recordingStore struct {
	inner store.Store
	ops   map[string]int
}

func (s *recordingStore) GetString(key, fallback string) string {
	s.ops["GetString"]++
	return s.inner.GetString(key, fallback)
}

func (s *recordingStore) SetString(key, value string) error {
	s.ops["SetString"]++
	return s.inner.SetString(key, value)
}

func (s *recordingStore) GetMap(key string) map[string]string {
	s.ops["GetMap"]++
	return s.inner.GetMap(key)
}

func (s *recordingStore) SetMap(key string, value map[string]string) error {
	s.ops["SetMap"]++
	return s.inner.SetMap(key, value)
}

func (s *recordingStore) Remove(key string) error {
	s.ops["Remove"]++
	return s.inner.Remove(key)
}

func (s *recordingStore) Contains(key string) bool {
	s.ops["Contains"]++
	return s.inner.Contains(key)
}

// testLogger creates a logger quiet enough for tests.
func testLogger(t *testing.T) logging.Logger {
	t.Helper()

	logger, err := logging.NewLogger("error")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	return logger
}

func TestState_SettersIgnoredWhenOptedOut(t *testing.T) {
	state := NewState(store.NewMemoryProvider(), testLogger(t), PrivacyOptedIn)

	state.SetDpid("d1")
	state.SetDpuuid("du1")
	state.SetUUID("u1")
	state.SetVisitorProfile(map[string]string{"k": "v"})

	state.SetPrivacyStatus(PrivacyOptedOut)

	state.SetDpid("d2")
	state.SetDpuuid("du2")
	state.SetUUID("u2")
	state.SetVisitorProfile(map[string]string{"k": "v2"})

	if got := state.Dpid(); got != "d1" {
		t.Errorf("dpid changed while opted out: got %q, want %q", got, "d1")
	}
	if got := state.Dpuuid(); got != "du1" {
		t.Errorf("dpuuid changed while opted out: got %q, want %q", got, "du1")
	}
	if got := state.UUID(); got != "u1" {
		t.Errorf("uuid changed while opted out: got %q, want %q", got, "u1")
	}
	if got := state.VisitorProfile(); got["k"] != "v" {
		t.Errorf("visitor profile changed while opted out: got %v", got)
	}
}

func TestState_ClearingAllowedWhenOptedOut(t *testing.T) {
	stores := store.NewMemoryProvider()
	state := NewState(stores, testLogger(t), PrivacyOptedIn)

	state.SetUUID("u1")
	state.SetDpid("d1")
	state.SetDpuuid("du1")
	state.SetVisitorProfile(map[string]string{"k": "v"})

	state.SetPrivacyStatus(PrivacyOptedOut)

	state.SetUUID("")
	state.SetDpid("")
	state.SetDpuuid("")
	state.SetVisitorProfile(nil)

	if got := state.UUID(); got != "" {
		t.Errorf("uuid not cleared: got %q", got)
	}
	if got := state.Dpid(); got != "" {
		t.Errorf("dpid not cleared: got %q", got)
	}
	if got := state.Dpuuid(); got != "" {
		t.Errorf("dpuuid not cleared: got %q", got)
	}
	if got := state.VisitorProfile(); len(got) != 0 {
		t.Errorf("visitor profile not cleared: got %v", got)
	}

	ds := stores.DataStore(dataStoreName)
	if ds.Contains(userIDStorageKey) {
		t.Error("uuid key should be removed from store after clearing")
	}
	if ds.Contains(profileStorageKey) {
		t.Error("profile key should be removed from store after clearing")
	}
}

func TestState_UUIDHydratesOnceFromStore(t *testing.T) {
	provider := newRecordingProvider()
	if err := provider.inner.DataStore(dataStoreName).SetString(userIDStorageKey, "stored-uuid"); err != nil {
		t.Fatalf("failed to seed store: %v", err)
	}

	state := NewState(provider, testLogger(t), PrivacyOptedIn)

	if got := state.UUID(); got != "stored-uuid" {
		t.Fatalf("expected hydrated uuid %q, got %q", "stored-uuid", got)
	}
	if provider.ops["GetString"] != 1 {
		t.Fatalf("expected 1 store read after first UUID call, got %d", provider.ops["GetString"])
	}

	// Cached now; further reads must not hit the store.
	if got := state.UUID(); got != "stored-uuid" {
		t.Fatalf("expected cached uuid %q, got %q", "stored-uuid", got)
	}
	if provider.ops["GetString"] != 1 {
		t.Errorf("expected uuid to be cached, store read %d times", provider.ops["GetString"])
	}
}

func TestState_VisitorProfileAbsentFromStore(t *testing.T) {
	provider := newRecordingProvider()
	state := NewState(provider, testLogger(t), PrivacyOptedIn)

	if got := state.VisitorProfile(); got != nil {
		t.Errorf("expected nil profile for absent key, got %v", got)
	}
	if provider.ops["GetMap"] != 0 {
		t.Errorf("store map should not be read when key is absent, read %d times", provider.ops["GetMap"])
	}
}

func TestState_VisitorProfileHydratesFromStore(t *testing.T) {
	stores := store.NewMemoryProvider()
	if err := stores.DataStore(dataStoreName).SetMap(profileStorageKey, map[string]string{"seg": "a"}); err != nil {
		t.Fatalf("failed to seed store: %v", err)
	}

	state := NewState(stores, testLogger(t), PrivacyOptedIn)

	got := state.VisitorProfile()
	if got["seg"] != "a" {
		t.Errorf("expected hydrated profile, got %v", got)
	}
}

func TestState_StateDataEmptyWhenOptedOut(t *testing.T) {
	state := NewState(store.NewMemoryProvider(), testLogger(t), PrivacyOptedIn)

	state.SetUUID("abc123")
	state.SetDpid("d1")
	state.SetVisitorProfile(map[string]string{"k": "v"})

	state.SetPrivacyStatus(PrivacyOptedOut)

	if got := state.StateData(); len(got) != 0 {
		t.Errorf("expected empty state data while opted out, got %v", got)
	}
}

func TestState_StateDataContainsNonEmptyFields(t *testing.T) {
	state := NewState(store.NewMemoryProvider(), testLogger(t), PrivacyOptedIn)

	state.SetUUID("abc123")
	state.SetDpid("d1")
	state.SetVisitorProfile(map[string]string{"k": "v"})

	data := state.StateData()

	if got := data[stateKeyDpid]; got != "d1" {
		t.Errorf("expected dpid %q, got %v", "d1", got)
	}
	if got := data[stateKeyUUID]; got != "abc123" {
		t.Errorf("expected uuid %q, got %v", "abc123", got)
	}
	if _, ok := data[stateKeyDpuuid]; ok {
		t.Error("empty dpuuid should not appear in state data")
	}
	profile, ok := data[stateKeyVisitorProfile].(map[string]string)
	if !ok || profile["k"] != "v" {
		t.Errorf("expected profile entry, got %v", data[stateKeyVisitorProfile])
	}
}

func TestState_ClearIdentifiers(t *testing.T) {
	provider := newRecordingProvider()
	state := NewState(provider, testLogger(t), PrivacyOptedIn)

	state.SetUUID("u1")
	state.SetDpid("d1")
	state.SetDpuuid("du1")
	state.SetVisitorProfile(map[string]string{"k": "v"})

	state.ClearIdentifiers()

	if got := state.UUID(); got != "" {
		t.Errorf("uuid not cleared: got %q", got)
	}
	if got := state.Dpid(); got != "" {
		t.Errorf("dpid not cleared: got %q", got)
	}
	if got := state.Dpuuid(); got != "" {
		t.Errorf("dpuuid not cleared: got %q", got)
	}
	if got := state.VisitorProfile(); len(got) != 0 {
		t.Errorf("visitor profile not cleared: got %v", got)
	}

	// Clearing must issue removes for the two persisted keys.
	if provider.ops["Remove"] != 2 {
		t.Errorf("expected 2 store removes, got %d", provider.ops["Remove"])
	}
}

func TestState_DpidDpuuidNeverTouchStore(t *testing.T) {
	for _, privacy := range []PrivacyStatus{PrivacyOptedIn, PrivacyOptedOut, PrivacyUnknown} {
		provider := newRecordingProvider()
		state := NewState(provider, testLogger(t), privacy)

		state.SetDpid("d1")
		state.SetDpuuid("du1")
		state.Dpid()
		state.Dpuuid()
		state.SetDpid("")
		state.SetDpuuid("")

		if n := provider.totalOps(); n != 0 {
			t.Errorf("privacy %s: dpid/dpuuid caused %d store operations", privacy, n)
		}
	}
}

func TestState_NilStoreProvider(t *testing.T) {
	state := NewState(nil, testLogger(t), PrivacyOptedIn)

	// Every operation must complete; persistence is skipped.
	state.SetUUID("u1")
	state.SetVisitorProfile(map[string]string{"k": "v"})

	if got := state.UUID(); got != "u1" {
		t.Errorf("in-memory uuid lost without store: got %q", got)
	}
	if got := state.VisitorProfile(); got["k"] != "v" {
		t.Errorf("in-memory profile lost without store: got %v", got)
	}

	state.ClearIdentifiers()
	if got := state.UUID(); got != "" {
		t.Errorf("uuid not cleared without store: got %q", got)
	}
}

func TestState_UUIDPersistsAcrossHolders(t *testing.T) {
	stores := store.NewMemoryProvider()

	first := NewState(stores, testLogger(t), PrivacyOptedIn)
	first.SetUUID("u1")

	// A fresh holder over the same provider hydrates the persisted value.
	second := NewState(stores, testLogger(t), PrivacyOptedIn)
	if got := second.UUID(); got != "u1" {
		t.Errorf("expected persisted uuid %q, got %q", "u1", got)
	}
}

func TestState_SetPrivacyStatusDoesNotClear(t *testing.T) {
	stores := store.NewMemoryProvider()
	state := NewState(stores, testLogger(t), PrivacyOptedIn)

	state.SetUUID("u1")
	state.SetPrivacyStatus(PrivacyOptedOut)

	// Existing values stay in memory and in the store.
	if got := state.UUID(); got != "u1" {
		t.Errorf("uuid lost on privacy change: got %q", got)
	}
	if !stores.DataStore(dataStoreName).Contains(userIDStorageKey) {
		t.Error("persisted uuid should survive a privacy change")
	}
}
