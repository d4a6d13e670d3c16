package task

import (
	"fmt"

	"github.com/tasklens/tasklens/internal/ids"
)

// IDIndex indexes identifiers for prefix matching and display.
type IDIndex struct {
	ids []string
}

// NewIDIndex builds an IDIndex from task IDs.
func NewIDIndex(taskIDs []ID) IDIndex {
	raw := make([]string, 0, len(taskIDs))
	for _, id := range taskIDs {
		raw = append(raw, string(id))
	}
	return IDIndex{ids: ids.NormalizeUniqueIDs(raw)}
}

// Resolve returns the full ID for a prefix.
func (index IDIndex) Resolve(prefix string) (ID, error) {
	if prefix == "" {
		return "", ErrTaskNotFound
	}

	match, found, ambiguous := ids.MatchPrefixNormalized(index.ids, prefix)
	if !found {
		return "", fmt.Errorf("%w: %s", ErrTaskNotFound, prefix)
	}
	if ambiguous {
		return "", fmt.Errorf("%w: %s", ErrAmbiguousIDPrefix, prefix)
	}

	return ID(match), nil
}

// PrefixLengths returns the shortest unique prefix length for each ID.
func (index IDIndex) PrefixLengths() map[string]int {
	return ids.UniquePrefixLengthsNormalized(index.ids)
}
