package audience

import (
	"fmt"
	"strings"
)

// PrivacyStatus controls whether identifying data may be collected, persisted,
// and shared with other modules.
type PrivacyStatus string

const (
	// PrivacyOptedIn allows collection and sharing of identifying data.
	PrivacyOptedIn PrivacyStatus = "optedin"

	// PrivacyOptedOut forbids persisting or retaining any identifier except
	// clearing writes.
	PrivacyOptedOut PrivacyStatus = "optedout"

	// PrivacyUnknown is the state before the user has made a choice.
	// It is treated as not opted out.
	PrivacyUnknown PrivacyStatus = "optunknown"
)

// DefaultPrivacyStatus is used when configuration supplies no valid status.
const DefaultPrivacyStatus = PrivacyUnknown

// ParsePrivacyStatus converts a string into a PrivacyStatus.
// Matching is case-insensitive and ignores surrounding whitespace.
func ParsePrivacyStatus(s string) (PrivacyStatus, error) {
	switch PrivacyStatus(strings.ToLower(strings.TrimSpace(s))) {
	case PrivacyOptedIn:
		return PrivacyOptedIn, nil
	case PrivacyOptedOut:
		return PrivacyOptedOut, nil
	case PrivacyUnknown:
		return PrivacyUnknown, nil
	default:
		return "", fmt.Errorf("unknown privacy status %q", s)
	}
}

// PrivacyStatusOrDefault parses s, falling back to DefaultPrivacyStatus when
// s is empty or not a recognized status.
func PrivacyStatusOrDefault(s string) PrivacyStatus {
	status, err := ParsePrivacyStatus(s)
	if err != nil {
		return DefaultPrivacyStatus
	}
	return status
}
