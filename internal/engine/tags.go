package engine

import (
	"sort"

	"github.com/bianoble/savesync/internal/config"
)

// DistinctTags returns the sorted set of tags in the catalog. Selection
// indexes refer to positions in this list.
func DistinctTags(cat config.Catalog) []string {
	seen := make(map[string]bool, len(cat.Saves))
	tags := make([]string, 0, len(cat.Saves))
	for _, s := range cat.Saves {
		if seen[s.Tag] {
			continue
		}
		seen[s.Tag] = true
		tags = append(tags, s.Tag)
	}
	sort.Strings(tags)
	return tags
}

// SelectTag returns tags[index] or an *IndexError.
func SelectTag(tags []string, index int) (string, error) {
	if index < 0 || index >= len(tags) {
		return "", &IndexError{Index: index, Count: len(tags)}
	}
	return tags[index], nil
}

// FilterByTag returns the entries carrying tag, in catalog order.
// An empty tag keeps every entry.
func FilterByTag(cat config.Catalog, tag string) []config.SaveEntry {
	if tag == "" {
		return cat.Saves
	}
	var out []config.SaveEntry
	for _, s := range cat.Saves {
		if s.Tag == tag {
			out = append(out, s)
		}
	}
	return out
}
