package ids

import "strings"

// NormalizeUniqueIDs lowercases IDs and drops empties and duplicates,
// preserving first-seen order.
func NormalizeUniqueIDs(raw []string) []string {
	normalized := make([]string, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, id := range raw {
		idLower := strings.ToLower(id)
		if idLower == "" || seen[idLower] {
			continue
		}
		seen[idLower] = true
		normalized = append(normalized, idLower)
	}
	return normalized
}

// MatchPrefixNormalized finds the ID matching a prefix among normalized IDs.
// An exact match takes priority over prefix collisions.
func MatchPrefixNormalized(ids []string, prefix string) (match string, found, ambiguous bool) {
	prefix = strings.ToLower(prefix)
	if prefix == "" {
		return "", false, false
	}

	for _, id := range ids {
		if id == prefix {
			return id, true, false
		}
		if strings.HasPrefix(id, prefix) {
			if found {
				ambiguous = true
				continue
			}
			match = id
			found = true
		}
	}

	if ambiguous {
		return "", true, true
	}
	return match, found, false
}

// UniquePrefixLengths returns the shortest unique prefix length for each ID.
func UniquePrefixLengths(ids []string) map[string]int {
	return UniquePrefixLengthsNormalized(NormalizeUniqueIDs(ids))
}

// UniquePrefixLengthsNormalized is UniquePrefixLengths for IDs already
// normalized with NormalizeUniqueIDs.
func UniquePrefixLengthsNormalized(ids []string) map[string]int {
	lengths := make(map[string]int, len(ids))
	for _, id := range ids {
		lengths[id] = uniquePrefixLength(id, ids)
	}
	return lengths
}

func uniquePrefixLength(id string, ids []string) int {
	for length := 1; length <= len(id); length++ {
		prefix := id[:length]
		unique := true
		for _, other := range ids {
			if other == id {
				continue
			}
			if strings.HasPrefix(other, prefix) {
				unique = false
				break
			}
		}
		if unique {
			return length
		}
	}

	return len(id)
}
