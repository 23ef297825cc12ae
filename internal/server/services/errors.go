package services

import (
	"sort"
	"strings"
)

// ValidationErrors maps a field name to a user-facing message. It is
// reported inline to the submitter and never logged as a security
// event.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for field, msg := range v {
		parts = append(parts, field+": "+msg)
	}
	sort.Strings(parts)
	return strings.Join(parts, "; ")
}
