package descriptor

// Document is the JSON-serializable form of a built model, consumed by
// external renderers. Beans appear in schema table order.
type Document struct {
	RunID    string        `json:"run_id,omitempty"`
	Database string        `json:"database"`
	Beans    []BeanDocument `json:"beans"`
}

// BeanDocument is the serializable form of one bean descriptor.
type BeanDocument struct {
	Table         string             `json:"table"`
	Class         string             `json:"class"`
	Parent        string             `json:"parent,omitempty"`
	UsedTables    []string           `json:"used_tables"`
	Properties    []PropertyDocument `json:"properties"`
	Methods       []MethodDocument   `json:"methods,omitempty"`
	Constructor   []string           `json:"constructor"`
	Defaults      []string           `json:"defaults,omitempty"`
	Detach        []DetachSpec       `json:"detach,omitempty"`
	Serialization *SerializationPlan `json:"serialization"`
}

// PropertyDocument is the serializable form of one property. Type carries
// the sqltype kind name for scalars and is absent for object references.
type PropertyDocument struct {
	Name        string   `json:"name"`
	Kind        string   `json:"kind"` // "scalar" or "object"
	DeclaredIn  string   `json:"declared_in"`
	Column      string   `json:"column,omitempty"`
	Type        string   `json:"type,omitempty"`
	EnumValues  []string `json:"enum_values,omitempty"`
	ForeignKey  string   `json:"foreign_key,omitempty"`
	TargetTable string   `json:"target_table,omitempty"`
	Nullable    bool     `json:"nullable"`
	HasDefault  bool     `json:"has_default"`
	PrimaryKey  bool     `json:"primary_key"`
}

// MethodDocument is the serializable form of one accessor method.
type MethodDocument struct {
	Name        string `json:"name"`
	Kind        string `json:"kind"` // "foreign_key" or "pivot"
	TargetTable string `json:"target_table"`
	ForeignKey  string `json:"foreign_key,omitempty"`
	Junction    string `json:"junction,omitempty"`
}

// Document renders the model into its serializable form.
func (m *Model) Document(runID string) Document {
	doc := Document{
		RunID:    runID,
		Database: m.Schema.Name,
		Beans:    make([]BeanDocument, 0, len(m.beans)),
	}
	for _, bean := range m.beans {
		doc.Beans = append(doc.Beans, m.beanDocument(bean))
	}
	return doc
}

func (m *Model) beanDocument(b *BeanDescriptor) BeanDocument {
	doc := BeanDocument{
		Table:         b.Table.Name,
		Class:         b.ClassName,
		Parent:        b.ParentTable,
		UsedTables:    b.UsedTables(),
		Detach:        b.CascadeDetach(),
		Serialization: m.SerializationPlan(b),
	}

	for _, p := range b.Properties() {
		doc.Properties = append(doc.Properties, propertyDocument(p))
	}
	for _, method := range b.Methods() {
		doc.Methods = append(doc.Methods, methodDocument(method))
	}
	for _, p := range b.ConstructorProperties() {
		doc.Constructor = append(doc.Constructor, p.FinalName())
	}
	if doc.Constructor == nil {
		doc.Constructor = []string{}
	}
	for _, p := range b.PropertiesWithDefault() {
		doc.Defaults = append(doc.Defaults, p.FinalName())
	}
	return doc
}

func propertyDocument(p Property) PropertyDocument {
	doc := PropertyDocument{
		Name:       p.FinalName(),
		DeclaredIn: p.DeclaredIn(),
		Nullable:   p.Nullable(),
		HasDefault: p.HasDefault(),
		PrimaryKey: p.IsPrimaryKey(),
	}
	switch prop := p.(type) {
	case *ScalarProperty:
		doc.Kind = "scalar"
		doc.Column = prop.Column.Name
		doc.Type = prop.Column.Kind.String()
		doc.EnumValues = prop.Column.EnumValues
	case *ObjectProperty:
		doc.Kind = "object"
		doc.ForeignKey = prop.ForeignKey.ConstraintName
		doc.TargetTable = prop.TargetTable
	}
	return doc
}

func methodDocument(m Method) MethodDocument {
	doc := MethodDocument{
		Name:        m.FinalName(),
		TargetTable: m.TargetTable(),
	}
	switch acc := m.(type) {
	case *ForeignKeyAccessor:
		doc.Kind = "foreign_key"
		doc.ForeignKey = acc.ForeignKey.ConstraintName
	case *PivotAccessor:
		doc.Kind = "pivot"
		doc.Junction = acc.JunctionTable
	}
	return doc
}
