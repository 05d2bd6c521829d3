// Package junction provides classification logic for database junction
// tables. A junction table exists solely to link two other tables
// many-to-many; it produces no bean of its own and is folded into pivot
// accessors on both linked tables.
package junction

import (
	"sort"

	"mysql-beangen/internal/introspection"
	"mysql-beangen/internal/setutil"
)

// Info contains classification metadata for a junction table.
type Info struct {
	// Table is the junction table name.
	Table string
	// Left is the first foreign key constraint (alphabetically by referenced table).
	Left introspection.ForeignKeyConstraint
	// Right is the second foreign key constraint.
	Right introspection.ForeignKeyConstraint
}

// Other returns the constraint pointing away from the given table, and
// whether the junction links that table at all.
func (i Info) Other(tableName string) (introspection.ForeignKeyConstraint, bool) {
	switch tableName {
	case i.Left.ReferencedTable:
		return i.Right, true
	case i.Right.ReferencedTable:
		return i.Left, true
	default:
		return introspection.ForeignKeyConstraint{}, false
	}
}

// Local returns the constraint pointing at the given table.
func (i Info) Local(tableName string) (introspection.ForeignKeyConstraint, bool) {
	switch tableName {
	case i.Left.ReferencedTable:
		return i.Left, true
	case i.Right.ReferencedTable:
		return i.Right, true
	default:
		return introspection.ForeignKeyConstraint{}, false
	}
}

// Map maps junction table names to their classification info.
type Map map[string]Info

// Names returns the junction table names in sorted order, so iteration over
// junctions is deterministic across runs.
func (m Map) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Classify analyzes schema tables and returns junction classifications.
// A table is classified as a junction when:
//   - It has exactly 2 foreign key constraints to two different tables
//   - Every column belongs to one of the two constraints (no attribute columns)
//   - All FK columns are NOT NULL
//   - There is a composite PK or unique index covering all FK columns
//   - Both referenced tables exist in the schema
func Classify(schema *introspection.Schema) Map {
	result := make(Map)
	for _, table := range schema.Tables {
		if info, ok := classifyTable(table, schema); ok {
			result[table.Name] = info
		}
	}
	return result
}

func classifyTable(table introspection.Table, schema *introspection.Schema) (Info, bool) {
	constraints := introspection.ForeignKeyConstraints(table)
	if len(constraints) != 2 {
		return Info{}, false
	}

	left, right := constraints[0], constraints[1]

	// No self-links: both constraints must target different tables.
	if left.ReferencedTable == right.ReferencedTable {
		return Info{}, false
	}
	if schema.Table(left.ReferencedTable) == nil || schema.Table(right.ReferencedTable) == nil {
		return Info{}, false
	}

	fkColumns := append(append([]string(nil), left.ColumnNames...), right.ColumnNames...)

	for _, col := range table.Columns {
		if !setutil.Contains(fkColumns, col.Name) {
			// Any column outside the two constraints makes the table a real
			// entity, not a pure link.
			return Info{}, false
		}
		if col.IsNullable {
			return Info{}, false
		}
	}

	if !hasCoveringConstraint(table, fkColumns) {
		return Info{}, false
	}

	if left.ReferencedTable > right.ReferencedTable {
		left, right = right, left
	}
	return Info{Table: table.Name, Left: left, Right: right}, true
}

// hasCoveringConstraint checks for a PK or unique index covering all FK columns.
func hasCoveringConstraint(table introspection.Table, fkColumns []string) bool {
	if setutil.Covers(introspection.PrimaryKeyColumnNames(table), fkColumns) &&
		len(introspection.PrimaryKeyColumns(table)) > 0 {
		return true
	}
	for _, idx := range table.Indexes {
		if idx.Unique && setutil.Covers(idx.Columns, fkColumns) {
			return true
		}
	}
	return false
}
