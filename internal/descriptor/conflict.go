package descriptor

import (
	"mysql-beangen/internal/naming"
)

// resolveNameConflicts applies the two-pass deterministic disambiguation
// algorithm to an ordered collection of named descriptors.
//
// Pass 1 groups descriptors by current final name; every member of a group
// larger than one is asked for an alternative disambiguated name. Pass 2
// regroups by the possibly updated names; any remaining group larger than
// one is an unrecoverable collision. Given deterministic input ordering the
// resulting names are identical across runs on an unchanged schema.
func resolveNameConflicts[T named](tableName, kind string, items []T, namer *naming.Namer) error {
	for _, group := range groupByName(items) {
		if len(group) < 2 {
			continue
		}
		for _, item := range group {
			item.setFinalName(item.alternativeName(namer))
		}
	}

	for _, group := range groupByName(items) {
		if len(group) < 2 {
			continue
		}
		origins := make([]Origin, 0, len(group))
		for _, item := range group {
			origins = append(origins, item.Origin())
		}
		return &NameConflictError{
			Table:   tableName,
			Kind:    kind,
			Name:    group[0].FinalName(),
			Origins: origins,
		}
	}
	return nil
}

// groupByName buckets items by final name, preserving first-seen name order
// so pass 2 reports the earliest colliding group.
func groupByName[T named](items []T) [][]T {
	index := make(map[string]int, len(items))
	var groups [][]T
	for _, item := range items {
		name := item.FinalName()
		if i, ok := index[name]; ok {
			groups[i] = append(groups[i], item)
			continue
		}
		index[name] = len(groups)
		groups = append(groups, []T{item})
	}
	return groups
}
