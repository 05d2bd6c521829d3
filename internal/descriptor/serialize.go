package descriptor

// DetachSpec instructs the consumer to clear one object reference when the
// owning record is deleted. This is in-memory detachment for cache
// consistency, not a database-level cascading delete.
type DetachSpec struct {
	Property    string `json:"property"`
	ForeignKey  string `json:"foreign_key"`
	TargetTable string `json:"target_table"`
}

// CascadeDetach returns one detach instruction per own-table object
// property.
func (b *BeanDescriptor) CascadeDetach() []DetachSpec {
	var specs []DetachSpec
	for _, p := range b.ExposedProperties() {
		obj, ok := p.(*ObjectProperty)
		if !ok {
			continue
		}
		specs = append(specs, DetachSpec{
			Property:    obj.FinalName(),
			ForeignKey:  obj.ForeignKey.ConstraintName,
			TargetTable: obj.TargetTable,
		})
	}
	return specs
}

// SerializationPlan describes how a bean serializes: its fields and related
// collections. Object fields and collections carry a nested plan exactly
// one level deep; nested plans never recurse further, so bidirectional and
// cyclic relationships cannot cause unbounded traversal.
type SerializationPlan struct {
	Table       string           `json:"table"`
	Class       string           `json:"class"`
	Fields      []PlanField      `json:"fields"`
	Collections []PlanCollection `json:"collections,omitempty"`
}

// PlanField describes one serialized property. Type carries the sqltype
// kind name for scalars and is absent for object references.
type PlanField struct {
	Name        string             `json:"name"`
	Kind        string             `json:"kind"` // "scalar" or "object"
	Column      string             `json:"column,omitempty"`
	Type        string             `json:"type,omitempty"`
	TargetTable string             `json:"target_table,omitempty"`
	Nested      *SerializationPlan `json:"nested,omitempty"`
}

// PlanCollection describes one serialized related collection.
type PlanCollection struct {
	Name        string             `json:"name"`
	Kind        string             `json:"kind"` // "collection" or "pivot"
	TargetTable string             `json:"target_table"`
	Junction    string             `json:"junction,omitempty"`
	Nested      *SerializationPlan `json:"nested,omitempty"`
}

// SerializationPlan builds the full plan for one bean, recursing one level
// into related beans.
func (m *Model) SerializationPlan(b *BeanDescriptor) *SerializationPlan {
	return m.plan(b, true)
}

func (m *Model) plan(b *BeanDescriptor, recurse bool) *SerializationPlan {
	plan := &SerializationPlan{
		Table: b.Table.Name,
		Class: b.ClassName,
	}

	for _, p := range b.Properties() {
		switch prop := p.(type) {
		case *ScalarProperty:
			plan.Fields = append(plan.Fields, PlanField{
				Name:   prop.FinalName(),
				Kind:   "scalar",
				Column: prop.Column.Name,
				Type:   prop.Column.Kind.String(),
			})
		case *ObjectProperty:
			field := PlanField{
				Name:        prop.FinalName(),
				Kind:        "object",
				TargetTable: prop.TargetTable,
			}
			if recurse {
				if target := m.Bean(prop.TargetTable); target != nil {
					field.Nested = m.plan(target, false)
				}
			}
			plan.Fields = append(plan.Fields, field)
		}
	}

	if !recurse {
		return plan
	}

	for _, method := range b.Methods() {
		collection := PlanCollection{
			Name:        method.FinalName(),
			TargetTable: method.TargetTable(),
		}
		switch acc := method.(type) {
		case *ForeignKeyAccessor:
			collection.Kind = "collection"
		case *PivotAccessor:
			collection.Kind = "pivot"
			collection.Junction = acc.JunctionTable
		}
		if target := m.Bean(method.TargetTable()); target != nil {
			collection.Nested = m.plan(target, false)
		}
		plan.Collections = append(plan.Collections, collection)
	}
	return plan
}
