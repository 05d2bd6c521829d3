package descriptor

import (
	"mysql-beangen/internal/introspection"
	"mysql-beangen/internal/setutil"
)

// identityForeignKey returns the foreign key constraint whose local column
// set is exactly the table's primary key column set. Such a key signals
// table-per-subtype inheritance: the child's primary key doubles as a
// reference to the parent's primary key. Returns nil when the table has no
// parent. Self-referencing constraints never qualify, since a table cannot
// be its own ancestor.
func identityForeignKey(table introspection.Table) (*introspection.ForeignKeyConstraint, error) {
	pk := introspection.PrimaryKeyColumnNames(table)
	if len(pk) == 0 {
		return nil, nil
	}

	var matches []introspection.ForeignKeyConstraint
	for _, fk := range introspection.ForeignKeyConstraints(table) {
		if fk.ReferencedTable == table.Name {
			continue
		}
		if setutil.Equal(fk.ColumnNames, pk) {
			matches = append(matches, fk)
		}
	}

	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		identity := matches[0]
		return &identity, nil
	default:
		names := make([]string, 0, len(matches))
		for _, fk := range matches {
			names = append(names, fk.ConstraintName)
		}
		return nil, &AmbiguousInheritanceError{Table: table.Name, Constraints: names}
	}
}

// overlayProperties merges inherited properties with the table's own.
// Inherited properties keep their position and identity; an own property
// with the same final name replaces the inherited one in place, except
// primary key properties, which are always taken from the root ancestor —
// primary key identity is immutable across the hierarchy. Own properties
// with fresh names append in declaration order.
func overlayProperties(inherited, own []Property) []Property {
	merged := append([]Property(nil), inherited...)
	index := make(map[string]int, len(merged))
	for i, p := range merged {
		index[p.FinalName()] = i
	}

	for _, p := range own {
		if i, ok := index[p.FinalName()]; ok {
			if merged[i].IsPrimaryKey() {
				continue
			}
			merged[i] = p
			continue
		}
		index[p.FinalName()] = len(merged)
		merged = append(merged, p)
	}
	return merged
}
