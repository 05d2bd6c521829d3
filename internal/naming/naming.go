package naming

import (
	"log/slog"
	"strings"
)

// Namer provides all name transformation functions for converting SQL names
// to bean model names. It handles pluralization and reserved identifiers.
// Collision handling between finished names lives in the descriptor engine;
// the Namer only produces candidate names.
type Namer struct {
	config Config
	logger *slog.Logger
}

// New creates a Namer with the given configuration
func New(cfg Config, logger *slog.Logger) *Namer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Namer{
		config: cfg,
		logger: logger,
	}
}

// Default returns a Namer with default configuration
func Default() *Namer {
	return New(DefaultConfig(), nil)
}

// ClassName converts a table name to a bean class name (singular PascalCase).
// Example: "user_profiles" -> "UserProfile"
func (n *Namer) ClassName(tableName string) string {
	return n.validateAndSuffix(toPascalCase(n.Singularize(tableName)))
}

// PropertyName converts a column name to a property name (camelCase).
// Example: "created_at" -> "createdAt"
func (n *Namer) PropertyName(columnName string) string {
	return n.validateAndSuffix(toCamelCase(columnName))
}

// ObjectPropertyName derives the default property name for an object
// reference from the referenced table name, singularized.
// Example: "users" -> "user"
func (n *Namer) ObjectPropertyName(referencedTable string) string {
	return n.validateAndSuffix(toCamelCase(n.Singularize(referencedTable)))
}

// ReferencePropertyName derives a disambiguated object property name from
// the owning foreign key's local columns, stripping common FK suffixes from
// the first column. Falls back to the constraint name when the column list
// is empty.
// Example: columns ["author_id"] -> "author"
func (n *Namer) ReferencePropertyName(localColumns []string, constraintName string) string {
	if len(localColumns) == 0 {
		return n.validateAndSuffix(toCamelCase(constraintName))
	}
	name := localColumns[0]
	for _, suffix := range []string{"_id", "_fk"} {
		if strings.HasSuffix(strings.ToLower(name), suffix) {
			name = name[:len(name)-len(suffix)]
			break
		}
	}
	if name == "" {
		name = constraintName
	}
	return n.validateAndSuffix(toCamelCase(name))
}

// CollectionName derives the default accessor name for a collection of rows
// from a referencing table (pluralized camelCase).
// Example: "posts" -> "posts", "comment" -> "comments"
func (n *Namer) CollectionName(sourceTable string) string {
	return n.validateAndSuffix(n.Pluralize(toCamelCase(sourceTable)))
}

// PrefixedCollectionName derives a disambiguated collection accessor name by
// prefixing with the FK column name, minus common FK suffixes.
// Example: fkColumn="author_id", sourceTable="posts" -> "authorPosts"
func (n *Namer) PrefixedCollectionName(fkColumn, sourceTable string) string {
	prefix := n.ReferencePropertyName([]string{fkColumn}, fkColumn)
	collection := n.Pluralize(toCamelCase(sourceTable))
	if collection == "" {
		return prefix
	}
	return n.validateAndSuffix(prefix + strings.ToUpper(collection[:1]) + collection[1:])
}

// ViaCollectionName derives a disambiguated pivot accessor name by suffixing
// the junction table's class-cased name.
// Example: target="tags", junction="posts_tags" -> "tagsViaPostsTags"
func (n *Namer) ViaCollectionName(targetTable, junctionTable string) string {
	collection := n.Pluralize(toCamelCase(targetTable))
	return n.validateAndSuffix(collection + "Via" + toPascalCase(junctionTable))
}

func (n *Namer) validateAndSuffix(name string) string {
	if isReservedIdentifier(name) {
		safeName := name + "_"
		n.logger.Warn("name conflicts with reserved identifier, auto-suffixed",
			slog.String("original", name),
			slog.String("renamed", safeName),
		)
		return safeName
	}
	return name
}

// toPascalCase converts snake_case to PascalCase
func toPascalCase(s string) string {
	parts := strings.Split(s, "_")
	for i, part := range parts {
		if len(part) > 0 {
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return strings.Join(parts, "")
}

// toCamelCase converts snake_case to camelCase
func toCamelCase(s string) string {
	parts := strings.Split(s, "_")
	for i := 1; i < len(parts); i++ {
		if len(parts[i]) > 0 {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, "")
}
