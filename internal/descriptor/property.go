package descriptor

import (
	"mysql-beangen/internal/introspection"
	"mysql-beangen/internal/naming"
	"mysql-beangen/internal/setutil"
)

// resolveOwnProperties builds the ordered property set declared at one
// table's own level. Every foreign key constraint collapses to exactly one
// ObjectProperty regardless of how many columns it spans; columns of the
// identity foreign key are skipped entirely, since the inherited parent
// properties cover them. All remaining columns become ScalarProperties.
//
// Own-level name conflicts (typically several foreign keys into the same
// target table) are resolved here, before the inheritance overlay: a child
// property sharing a final name with an inherited one is an override, not a
// conflict.
func resolveOwnProperties(table introspection.Table, identity *introspection.ForeignKeyConstraint, namer *naming.Namer) ([]Property, error) {
	constraints := introspection.ForeignKeyConstraints(table)
	emitted := make(map[*introspection.ForeignKeyConstraint]bool)

	var props []Property
	for _, col := range table.Columns {
		fk := introspection.ConstraintForColumn(constraints, col.Name)
		if fk == nil {
			props = append(props, newScalarProperty(table.Name, col, namer))
			continue
		}
		if isIdentityConstraint(fk, identity) {
			// Absorbed by inheritance: the parent bean owns these columns.
			continue
		}
		if emitted[fk] {
			// Later columns of an already-collapsed constraint.
			continue
		}
		emitted[fk] = true
		props = append(props, newObjectProperty(table, *fk, namer))
	}

	if err := resolveNameConflicts(table.Name, "property", props, namer); err != nil {
		return nil, err
	}
	return props, nil
}

func isIdentityConstraint(fk, identity *introspection.ForeignKeyConstraint) bool {
	if identity == nil {
		return false
	}
	return fk.ConstraintName == identity.ConstraintName &&
		setutil.Equal(fk.ColumnNames, identity.ColumnNames)
}
