// Package descriptor derives per-table bean descriptors from an introspected
// schema snapshot: properties (scalar columns and collapsed foreign key
// references), relationship accessor methods, and a table-per-subtype
// inheritance hierarchy, with deterministic name conflict resolution.
//
// The engine is a pure, single-pass transform: one immutable snapshot in,
// one immutable descriptor set out. The only mutation a descriptor ever
// sees is the single final-name rewrite performed by conflict resolution.
package descriptor

import (
	"mysql-beangen/internal/introspection"
	"mysql-beangen/internal/naming"
)

// Origin identifies the schema element a descriptor was derived from.
// It is carried on name conflict errors so the offending element can be
// located in the database.
type Origin struct {
	Table      string
	Column     string
	ForeignKey string
}

func (o Origin) String() string {
	s := "table " + o.Table
	if o.Column != "" {
		s += ", column " + o.Column
	}
	if o.ForeignKey != "" {
		s += ", foreign key " + o.ForeignKey
	}
	return s
}

// named is the common surface conflict resolution operates on.
type named interface {
	FinalName() string
	setFinalName(name string)
	alternativeName(namer *naming.Namer) string
	Origin() Origin
}

// Property is the tagged-variant interface over ScalarProperty and
// ObjectProperty. The concrete type is recovered with a type switch.
type Property interface {
	named
	// DeclaredIn returns the table at whose level the property is declared.
	// Inherited properties report their ancestor table.
	DeclaredIn() string
	// Nullable reports whether the caller may omit a value entirely.
	Nullable() bool
	// HasDefault reports whether the database supplies a value when omitted.
	HasDefault() bool
	// IsPrimaryKey reports whether the property is part of the primary key.
	IsPrimaryKey() bool
}

// ScalarProperty is a bean property backed directly by one column.
type ScalarProperty struct {
	table  string
	name   string
	Column introspection.Column
}

func newScalarProperty(table string, col introspection.Column, namer *naming.Namer) *ScalarProperty {
	return &ScalarProperty{
		table:  table,
		name:   namer.PropertyName(col.Name),
		Column: col,
	}
}

// FinalName returns the resolved property name.
func (p *ScalarProperty) FinalName() string { return p.name }

func (p *ScalarProperty) setFinalName(name string) { p.name = name }

func (p *ScalarProperty) alternativeName(namer *naming.Namer) string {
	// Disambiguate by incorporating the owning table name.
	return namer.PropertyName(p.table + "_" + p.Column.Name)
}

// Origin identifies the backing column.
func (p *ScalarProperty) Origin() Origin {
	return Origin{Table: p.table, Column: p.Column.Name}
}

// DeclaredIn returns the declaring table name.
func (p *ScalarProperty) DeclaredIn() string { return p.table }

// Nullable reports whether the backing column accepts NULL.
func (p *ScalarProperty) Nullable() bool { return p.Column.IsNullable }

// HasDefault reports whether the backing column has a schema default.
func (p *ScalarProperty) HasDefault() bool { return p.Column.HasDefault }

// IsPrimaryKey reports whether the backing column is part of the primary key.
func (p *ScalarProperty) IsPrimaryKey() bool { return p.Column.IsPrimaryKey }

// ObjectProperty is a bean property backed by a (possibly multi-column)
// foreign key, exposed as a single reference to the related bean.
type ObjectProperty struct {
	table       string
	name        string
	ForeignKey  introspection.ForeignKeyConstraint
	TargetTable string

	nullable   bool
	hasDefault bool
	primaryKey bool
}

func newObjectProperty(table introspection.Table, fk introspection.ForeignKeyConstraint, namer *naming.Namer) *ObjectProperty {
	// Single-column keys name the reference after the column with FK
	// suffixes stripped ("author_id" -> "author"); composite keys have no
	// single natural column and fall back to the referenced table.
	name := namer.ObjectPropertyName(fk.ReferencedTable)
	if len(fk.ColumnNames) == 1 {
		name = namer.ReferencePropertyName(fk.ColumnNames, fk.ConstraintName)
	}
	p := &ObjectProperty{
		table:       table.Name,
		name:        name,
		ForeignKey:  fk,
		TargetTable: fk.ReferencedTable,
	}
	// The reference is omittable only when the database can cope with every
	// backing column being absent; it is a key reference only when every
	// backing column belongs to the primary key.
	p.nullable = true
	p.hasDefault = true
	p.primaryKey = len(fk.ColumnNames) > 0
	for _, name := range fk.ColumnNames {
		col := columnByName(table, name)
		if col == nil {
			continue
		}
		if !col.IsNullable {
			p.nullable = false
		}
		if !col.HasDefault {
			p.hasDefault = false
		}
		if !col.IsPrimaryKey {
			p.primaryKey = false
		}
	}
	return p
}

// FinalName returns the resolved property name.
func (p *ObjectProperty) FinalName() string { return p.name }

func (p *ObjectProperty) setFinalName(name string) { p.name = name }

func (p *ObjectProperty) alternativeName(namer *naming.Namer) string {
	// Swap derivations: whichever form the default did not use.
	if len(p.ForeignKey.ColumnNames) == 1 {
		return namer.ObjectPropertyName(p.ForeignKey.ReferencedTable)
	}
	return namer.ReferencePropertyName(p.ForeignKey.ColumnNames, p.ForeignKey.ConstraintName)
}

// Origin identifies the backing foreign key constraint.
func (p *ObjectProperty) Origin() Origin {
	return Origin{Table: p.table, ForeignKey: p.ForeignKey.ConstraintName}
}

// DeclaredIn returns the declaring table name.
func (p *ObjectProperty) DeclaredIn() string { return p.table }

// Nullable reports whether every backing column accepts NULL.
func (p *ObjectProperty) Nullable() bool { return p.nullable }

// HasDefault reports whether every backing column has a schema default.
func (p *ObjectProperty) HasDefault() bool { return p.hasDefault }

// IsPrimaryKey reports whether every backing column is part of the primary key.
func (p *ObjectProperty) IsPrimaryKey() bool { return p.primaryKey }

// Method is the tagged-variant interface over ForeignKeyAccessor and
// PivotAccessor.
type Method interface {
	named
	// TargetTable returns the table whose rows the accessor exposes.
	TargetTable() string
}

// ForeignKeyAccessor exposes the one-to-many collection of rows in another
// table holding a foreign key into the owning table.
type ForeignKeyAccessor struct {
	owner       string
	name        string
	SourceTable string
	ForeignKey  introspection.ForeignKeyConstraint
}

func newForeignKeyAccessor(owner, source string, fk introspection.ForeignKeyConstraint, namer *naming.Namer) *ForeignKeyAccessor {
	return &ForeignKeyAccessor{
		owner:       owner,
		name:        namer.CollectionName(source),
		SourceTable: source,
		ForeignKey:  fk,
	}
}

// FinalName returns the resolved method name.
func (m *ForeignKeyAccessor) FinalName() string { return m.name }

func (m *ForeignKeyAccessor) setFinalName(name string) { m.name = name }

func (m *ForeignKeyAccessor) alternativeName(namer *naming.Namer) string {
	if len(m.ForeignKey.ColumnNames) > 0 {
		return namer.PrefixedCollectionName(m.ForeignKey.ColumnNames[0], m.SourceTable)
	}
	return namer.PrefixedCollectionName(m.ForeignKey.ConstraintName, m.SourceTable)
}

// Origin identifies the incoming foreign key constraint.
func (m *ForeignKeyAccessor) Origin() Origin {
	return Origin{Table: m.SourceTable, ForeignKey: m.ForeignKey.ConstraintName}
}

// TargetTable returns the referencing table.
func (m *ForeignKeyAccessor) TargetTable() string { return m.SourceTable }

// PivotAccessor exposes the many-to-many collection reachable through a
// junction table. The reciprocal accessor lives on the opposite table's
// bean and is resolved independently.
type PivotAccessor struct {
	owner         string
	name          string
	JunctionTable string
	// LocalKey links the junction to the owning table, RemoteKey to the
	// opposite table.
	LocalKey  introspection.ForeignKeyConstraint
	RemoteKey introspection.ForeignKeyConstraint
}

func newPivotAccessor(owner, junctionTable string, local, remote introspection.ForeignKeyConstraint, namer *naming.Namer) *PivotAccessor {
	return &PivotAccessor{
		owner:         owner,
		name:          namer.CollectionName(remote.ReferencedTable),
		JunctionTable: junctionTable,
		LocalKey:      local,
		RemoteKey:     remote,
	}
}

// FinalName returns the resolved method name.
func (m *PivotAccessor) FinalName() string { return m.name }

func (m *PivotAccessor) setFinalName(name string) { m.name = name }

func (m *PivotAccessor) alternativeName(namer *naming.Namer) string {
	return namer.ViaCollectionName(m.RemoteKey.ReferencedTable, m.JunctionTable)
}

// Origin identifies the junction table and the far-side foreign key.
func (m *PivotAccessor) Origin() Origin {
	return Origin{Table: m.JunctionTable, ForeignKey: m.RemoteKey.ConstraintName}
}

// TargetTable returns the table on the far side of the junction.
func (m *PivotAccessor) TargetTable() string { return m.RemoteKey.ReferencedTable }

func columnByName(table introspection.Table, name string) *introspection.Column {
	for i := range table.Columns {
		if table.Columns[i].Name == name {
			return &table.Columns[i]
		}
	}
	return nil
}
