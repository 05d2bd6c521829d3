package descriptor

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"mysql-beangen/internal/introspection"
	"mysql-beangen/internal/junction"
	"mysql-beangen/internal/naming"
)

// Model is the result of one generation run: an ordered collection of bean
// descriptors, one per non-junction table, in schema table order.
type Model struct {
	Schema *introspection.Schema

	beans   []*BeanDescriptor
	byTable map[string]*BeanDescriptor
}

// Beans returns the descriptors in schema table order.
func (m *Model) Beans() []*BeanDescriptor {
	return m.beans
}

// Bean returns the descriptor for the given table name, or nil. Junction
// tables have no descriptor.
func (m *Model) Bean(tableName string) *BeanDescriptor {
	return m.byTable[tableName]
}

type builder struct {
	schema    *introspection.Schema
	junctions junction.Map
	namer     *naming.Namer

	// memo owns every descriptor; parents requested by multiple children
	// are resolved exactly once and shared read-only.
	memo      map[string]*BeanDescriptor
	resolving map[string]bool
}

// Build derives the full descriptor model for one schema snapshot. Any
// fatal condition aborts the whole run with no partial output.
func Build(ctx context.Context, schema *introspection.Schema, junctions junction.Map, namer *naming.Namer) (*Model, error) {
	_, span := startSpan(ctx, "descriptor.build",
		attribute.String("db.name", schema.Name),
		attribute.Int("schema.tables", len(schema.Tables)),
	)
	defer span.End()

	if namer == nil {
		namer = naming.Default()
	}
	if junctions == nil {
		junctions = junction.Map{}
	}

	// The detector is a collaborator we do not control; verify every table
	// it handed over groups into exactly two constraints before any bean
	// resolution starts.
	for _, name := range junctions.Names() {
		table := schema.Table(name)
		if table == nil {
			err := fmt.Errorf("junction table %s not present in schema snapshot", name)
			recordSpanError(span, err)
			return nil, err
		}
		if n := len(introspection.ForeignKeyConstraints(*table)); n != 2 {
			err := &MalformedJunctionError{Table: name, ForeignKeyCount: n}
			recordSpanError(span, err)
			return nil, err
		}
	}

	b := &builder{
		schema:    schema,
		junctions: junctions,
		namer:     namer,
		memo:      make(map[string]*BeanDescriptor),
		resolving: make(map[string]bool),
	}

	model := &Model{
		Schema:  schema,
		byTable: make(map[string]*BeanDescriptor),
	}
	for _, table := range schema.Tables {
		if _, ok := junctions[table.Name]; ok {
			// Junction tables yield no bean of their own.
			continue
		}
		bean, err := b.resolve(table.Name)
		if err != nil {
			recordSpanError(span, err)
			return nil, err
		}
		model.beans = append(model.beans, bean)
		model.byTable[table.Name] = bean
	}

	span.SetAttributes(attribute.Int("model.beans", len(model.beans)))
	return model, nil
}

// resolve builds the descriptor for one table, resolving its parent first
// when an identity foreign key links it into a hierarchy.
func (b *builder) resolve(tableName string) (*BeanDescriptor, error) {
	if bean, ok := b.memo[tableName]; ok {
		return bean, nil
	}
	if b.resolving[tableName] {
		return nil, fmt.Errorf("inheritance cycle detected at table %s", tableName)
	}
	b.resolving[tableName] = true
	defer delete(b.resolving, tableName)

	table := b.schema.Table(tableName)
	if table == nil {
		return nil, fmt.Errorf("table %s not present in schema snapshot", tableName)
	}

	if len(introspection.PrimaryKeyColumns(*table)) == 0 {
		return nil, &MissingPrimaryKeyError{Table: tableName}
	}

	identity, err := identityForeignKey(*table)
	if err != nil {
		return nil, err
	}

	own, err := resolveOwnProperties(*table, identity, b.namer)
	if err != nil {
		return nil, err
	}

	var (
		properties  []Property
		parent      *BeanDescriptor
		parentTable string
	)
	if identity != nil {
		parentTable = identity.ReferencedTable
		parent, err = b.resolve(parentTable)
		if err != nil {
			return nil, fmt.Errorf("resolving parent of table %s: %w", tableName, err)
		}
		properties = overlayProperties(parent.properties, own)
	} else {
		properties = own
	}

	methods, err := b.resolveMethods(*table)
	if err != nil {
		return nil, err
	}

	bean := &BeanDescriptor{
		Table:       *table,
		ClassName:   b.namer.ClassName(tableName),
		ParentTable: parentTable,
		parent:      parent,
		properties:  properties,
		methods:     methods,
	}
	b.memo[tableName] = bean
	return bean, nil
}

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := otel.Tracer("mysql-beangen/descriptor")
	ctx, span := tracer.Start(ctx, name)
	if len(attrs) > 0 {
		span.SetAttributes(attrs...)
	}
	return ctx, span
}

func recordSpanError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
