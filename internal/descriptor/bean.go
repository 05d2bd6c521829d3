package descriptor

import (
	"mysql-beangen/internal/introspection"
)

// BeanDescriptor is the derived object model for one non-junction table:
// its ordered property set (own and inherited), its relationship accessor
// methods, and its position in the inheritance hierarchy. Descriptors are
// built once per generation run and are read-only afterwards.
type BeanDescriptor struct {
	Table introspection.Table
	// ClassName is the generated class name for the bean.
	ClassName string
	// ParentTable names the parent table in a table-per-subtype hierarchy,
	// or is empty for root tables. It is a lookup key, not ownership.
	ParentTable string

	parent     *BeanDescriptor
	properties []Property
	methods    []Method
}

// Properties returns the full ordered property set, inherited properties
// first in ancestor order, then own properties. Final names are pairwise
// distinct.
func (b *BeanDescriptor) Properties() []Property {
	return b.properties
}

// Property returns the property with the given final name, or nil.
func (b *BeanDescriptor) Property(name string) Property {
	for _, p := range b.properties {
		if p.FinalName() == name {
			return p
		}
	}
	return nil
}

// Methods returns the relationship accessor methods. Final names are
// pairwise distinct.
func (b *BeanDescriptor) Methods() []Method {
	return b.methods
}

// Parent returns the parent bean, or nil for root tables. The reference is
// non-owning; the build's memo table owns every descriptor.
func (b *BeanDescriptor) Parent() *BeanDescriptor {
	return b.parent
}

// ConstructorProperties returns the own-and-inherited properties a caller
// must supply on construction: non-nullable with no database default.
func (b *BeanDescriptor) ConstructorProperties() []Property {
	var props []Property
	for _, p := range b.properties {
		if !p.Nullable() && !p.HasDefault() {
			props = append(props, p)
		}
	}
	return props
}

// PropertiesWithDefault returns own-table properties carrying a schema
// default: initialized by the database but overridable by the caller.
func (b *BeanDescriptor) PropertiesWithDefault() []Property {
	var props []Property
	for _, p := range b.properties {
		if p.DeclaredIn() == b.Table.Name && p.HasDefault() {
			props = append(props, p)
		}
	}
	return props
}

// ExposedProperties returns the properties declared at this table's own
// level. Accessors for inherited properties live on the ancestor bean.
func (b *BeanDescriptor) ExposedProperties() []Property {
	var props []Property
	for _, p := range b.properties {
		if p.DeclaredIn() == b.Table.Name {
			props = append(props, p)
		}
	}
	return props
}

// PrimaryKeyProperties returns the properties backing the primary key. For
// descendant beans these are, by identity, the root ancestor's primary key
// properties.
func (b *BeanDescriptor) PrimaryKeyProperties() []Property {
	var props []Property
	for _, p := range b.properties {
		if p.IsPrimaryKey() {
			props = append(props, p)
		}
	}
	return props
}

// UsedTables returns the ancestor chain from the root table down to this
// table, for serialization and debugging.
func (b *BeanDescriptor) UsedTables() []string {
	if b.parent == nil {
		return []string{b.Table.Name}
	}
	return append(b.parent.UsedTables(), b.Table.Name)
}
