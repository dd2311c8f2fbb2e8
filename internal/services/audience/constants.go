package audience

// Store namespace and keys for persisted audience state. dpid and dpuuid are
// deliberately absent here: they live in memory only.
const (
	// dataStoreName is the store namespace owned by the audience module.
	dataStoreName = "audience"

	// userIDStorageKey is the store key for the persisted visitor UUID.
	userIDStorageKey = "user_id"

	// profileStorageKey is the store key for the persisted visitor profile.
	profileStorageKey = "visitor_profile"
)

// Keys used in the state data bag shared with other modules.
const (
	stateKeyDpid           = "dpid"
	stateKeyDpuuid         = "dpuuid"
	stateKeyUUID           = "uuid"
	stateKeyVisitorProfile = "visitorprofile"
)
