package descriptor

import (
	"mysql-beangen/internal/introspection"
)

// resolveMethods derives the relationship accessor methods for one table:
// a ForeignKeyAccessor for every foreign key in the schema referencing it
// (excluding keys owned by junction tables), and a PivotAccessor for every
// junction linking it to an opposite table. The reciprocal pivot accessor
// is emitted independently when the opposite table is processed. Name
// conflicts across the combined list are resolved before returning.
func (b *builder) resolveMethods(table introspection.Table) ([]Method, error) {
	var methods []Method

	// Direct one-to-many accessors from incoming foreign keys. The scan
	// includes the table itself, so self-referencing keys yield an accessor
	// for the dependent rows.
	for _, other := range b.schema.Tables {
		if _, ok := b.junctions[other.Name]; ok {
			continue
		}
		for _, fk := range introspection.ForeignKeyConstraints(other) {
			if fk.ReferencedTable != table.Name {
				continue
			}
			methods = append(methods, newForeignKeyAccessor(table.Name, other.Name, fk, b.namer))
		}
	}

	// Pivot accessors through junction tables, in sorted junction order.
	for _, name := range b.junctions.Names() {
		info := b.junctions[name]
		remote, ok := info.Other(table.Name)
		if !ok {
			// Junction does not touch this table.
			continue
		}
		local, _ := info.Local(table.Name)
		methods = append(methods, newPivotAccessor(table.Name, info.Table, local, remote, b.namer))
	}

	if err := resolveNameConflicts(table.Name, "method", methods, b.namer); err != nil {
		return nil, err
	}
	return methods, nil
}
