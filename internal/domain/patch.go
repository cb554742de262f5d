package domain

import (
	"encoding/json"
	"sort"
)

// CheckAllowedFields rejects raw when it carries a key not listed in allowed.
// Offending keys are reported in sorted order so the error is deterministic.
func CheckAllowedFields(raw map[string]json.RawMessage, allowed ...string) error {
	permitted := make(map[string]struct{}, len(allowed))
	for _, field := range allowed {
		permitted[field] = struct{}{}
	}

	var rejected []string
	for key := range raw {
		if _, ok := permitted[key]; !ok {
			rejected = append(rejected, key)
		}
	}
	if len(rejected) == 0 {
		return nil
	}

	sort.Strings(rejected)
	return NewValidationError(rejected[0], "cannot be updated", ErrInvalidUpdate)
}
