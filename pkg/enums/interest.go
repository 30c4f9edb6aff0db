package enums

import (
	"fmt"
	"strings"
)

// InterestStatus tracks where a customer lead sits in admin triage.
type InterestStatus string

const (
	InterestStatusNew       InterestStatus = "new"
	InterestStatusContacted InterestStatus = "contacted"
	InterestStatusClosed    InterestStatus = "closed"
)

var validInterestStatuses = []InterestStatus{
	InterestStatusNew,
	InterestStatusContacted,
	InterestStatusClosed,
}

// String implements fmt.Stringer.
func (s InterestStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known InterestStatus.
func (s InterestStatus) IsValid() bool {
	for _, candidate := range validInterestStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseInterestStatus converts raw input into an InterestStatus.
func ParseInterestStatus(value string) (InterestStatus, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validInterestStatuses {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid interest status %q", value)
}
