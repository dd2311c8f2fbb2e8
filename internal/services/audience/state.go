package audience

import (
	"github.com/avh-labs/audiencehub/internal/logging"
	"github.com/avh-labs/audiencehub/internal/store"
)

// State keeps the current values of all audience-related variables, persists
// the durable ones through the store provider, and exposes getters and
// setters for each.
//
// The privacy gate applies to every setter: when the status is opted-out,
// non-empty writes are silently dropped. Clearing writes (empty string, nil
// or empty map) always go through so a logout can wipe identifiers in any
// privacy state.
//
// uuid and the visitor profile are persisted and lazily hydrated from the
// store; dpid and dpuuid are memory-only. The store provider may be nil when
// local storage is unavailable, in which case persistence is skipped with an
// error log and the in-memory semantics are unchanged.
//
// State does no locking of its own. It assumes a single goroutine; callers
// that share it own the serialization (the HTTP module wraps it in a mutex).
type State struct {
	uuid           string
	dpid           string
	dpuuid         string
	visitorProfile map[string]string

	privacy PrivacyStatus
	stores  store.Provider
	logger  logging.Logger
}

// NewState creates a State backed by the given store provider.
// stores may be nil; persistence then degrades to memory-only operation.
func NewState(stores store.Provider, logger logging.Logger, defaultPrivacy PrivacyStatus) *State {
	return &State{
		privacy: defaultPrivacy,
		stores:  stores,
		logger:  logger,
	}
}

// SetDpid sets the data-provider ID. The write is ignored when the value is
// non-empty and privacy is opted-out. dpid is never persisted.
func (s *State) SetDpid(dpid string) {
	if dpid == "" || s.privacy != PrivacyOptedOut {
		s.dpid = dpid
	}
}

// SetDpuuid sets the data-provider user ID. The write is ignored when the
// value is non-empty and privacy is opted-out. dpuuid is never persisted.
func (s *State) SetDpuuid(dpuuid string) {
	if dpuuid == "" || s.privacy != PrivacyOptedOut {
		s.dpuuid = dpuuid
	}
}

// SetUUID sets the visitor UUID and persists it.
// An empty value removes the persisted key regardless of privacy status; a
// non-empty value is persisted and retained only when not opted out.
func (s *State) SetUUID(uuid string) {
	if ds := s.dataStore(); ds != nil {
		if uuid == "" {
			if err := ds.Remove(userIDStorageKey); err != nil {
				s.logger.Error("failed to remove uuid from persistence",
					logging.ErrorField(err),
				)
			}
		} else if s.privacy != PrivacyOptedOut {
			if err := ds.SetString(userIDStorageKey, uuid); err != nil {
				s.logger.Error("failed to persist uuid",
					logging.ErrorField(err),
				)
			}
		}
	} else {
		s.logger.Error("unable to update uuid in persistence, local storage is unavailable")
	}

	if uuid == "" || s.privacy != PrivacyOptedOut {
		s.uuid = uuid
	}
}

// SetVisitorProfile sets the visitor profile and persists it.
// A nil or empty map removes the persisted key regardless of privacy status;
// a populated map is persisted and retained only when not opted out.
func (s *State) SetVisitorProfile(profile map[string]string) {
	if ds := s.dataStore(); ds != nil {
		if len(profile) == 0 {
			if err := ds.Remove(profileStorageKey); err != nil {
				s.logger.Error("failed to remove visitor profile from persistence",
					logging.ErrorField(err),
				)
			}
		} else if s.privacy != PrivacyOptedOut {
			if err := ds.SetMap(profileStorageKey, profile); err != nil {
				s.logger.Error("failed to persist visitor profile",
					logging.ErrorField(err),
				)
			}
		}
	} else {
		s.logger.Error("unable to update visitor profile in persistence, local storage is unavailable")
	}

	if len(profile) == 0 || s.privacy != PrivacyOptedOut {
		s.visitorProfile = profile
	}
}

// SetPrivacyStatus sets the privacy status. The assignment is unconditional
// and has no side effects on fields already held or persisted.
func (s *State) SetPrivacyStatus(status PrivacyStatus) {
	s.privacy = status
}

// Dpid returns the data-provider ID.
func (s *State) Dpid() string {
	return s.dpid
}

// Dpuuid returns the data-provider user ID.
func (s *State) Dpuuid() string {
	return s.dpuuid
}

// UUID returns the visitor UUID, loading it from the store when there is no
// value in memory yet.
func (s *State) UUID() string {
	if s.uuid == "" {
		if ds := s.dataStore(); ds != nil {
			s.uuid = ds.GetString(userIDStorageKey, s.uuid)
		} else {
			s.logger.Error("unable to retrieve uuid from persistence, local storage is unavailable")
		}
	}

	return s.uuid
}

// VisitorProfile returns the visitor profile, loading it from the store when
// there is no value in memory yet and the store holds one.
func (s *State) VisitorProfile() map[string]string {
	if len(s.visitorProfile) == 0 {
		ds := s.dataStore()

		if ds == nil {
			s.logger.Error("unable to retrieve visitor profile from persistence, local storage is unavailable")
		} else if ds.Contains(profileStorageKey) {
			s.visitorProfile = ds.GetMap(profileStorageKey)
		}
	}

	return s.visitorProfile
}

// PrivacyStatus returns the current privacy status.
func (s *State) PrivacyStatus() PrivacyStatus {
	return s.privacy
}

// StateData returns the data this module shares with other modules: the
// non-empty identifiers under their fixed keys. When privacy is opted-out the
// bag is empty and no field is read at all.
func (s *State) StateData() map[string]interface{} {
	stateData := make(map[string]interface{})

	if s.PrivacyStatus() == PrivacyOptedOut {
		// do not share state when opted out
		return stateData
	}

	if dpid := s.Dpid(); dpid != "" {
		stateData[stateKeyDpid] = dpid
	}

	if dpuuid := s.Dpuuid(); dpuuid != "" {
		stateData[stateKeyDpuuid] = dpuuid
	}

	if uuid := s.UUID(); uuid != "" {
		stateData[stateKeyUUID] = uuid
	}

	if profile := s.VisitorProfile(); len(profile) > 0 {
		stateData[stateKeyVisitorProfile] = profile
	}

	return stateData
}

// ClearIdentifiers clears the UUID, dpid, dpuuid, and visitor profile by
// running each setter's clearing path, which is permitted in every privacy
// state and removes the persisted keys.
func (s *State) ClearIdentifiers() {
	s.SetUUID("")
	s.SetDpid("")
	s.SetDpuuid("")
	s.SetVisitorProfile(nil)
}

// dataStore returns the audience namespace of the store provider, or nil when
// local storage is unavailable.
func (s *State) dataStore() store.Store {
	if s.stores == nil {
		return nil
	}

	return s.stores.DataStore(dataStoreName)
}
