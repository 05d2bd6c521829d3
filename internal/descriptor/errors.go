package descriptor

import (
	"fmt"
	"strings"
)

// All error kinds below are fatal: descriptor building aborts on the first
// one encountered and returns no partial descriptor set, since a half-built
// hierarchy could contain dangling parent references.

// MissingPrimaryKeyError indicates a table without a primary key. It is
// raised before any property resolution for that table.
type MissingPrimaryKeyError struct {
	Table string
}

func (e *MissingPrimaryKeyError) Error() string {
	return fmt.Sprintf("table %s has no primary key", e.Table)
}

// AmbiguousInheritanceError indicates a table with more than one identity
// foreign key, so the parent table cannot be determined.
type AmbiguousInheritanceError struct {
	Table       string
	Constraints []string
}

func (e *AmbiguousInheritanceError) Error() string {
	return fmt.Sprintf("table %s has multiple identity foreign keys (%s); at most one parent is allowed",
		e.Table, strings.Join(e.Constraints, ", "))
}

// NameConflictError indicates two or more descriptors still sharing a final
// name after one round of alternative naming. Origins identifies every
// colliding descriptor's backing schema element.
type NameConflictError struct {
	Table   string
	Kind    string // "property" or "method"
	Name    string
	Origins []Origin
}

func (e *NameConflictError) Error() string {
	origins := make([]string, 0, len(e.Origins))
	for _, o := range e.Origins {
		origins = append(origins, o.String())
	}
	return fmt.Sprintf("unresolvable %s name conflict on %q in bean for table %s: %s",
		e.Kind, e.Name, e.Table, strings.Join(origins, "; "))
}

// MalformedJunctionError indicates a table classified as a junction that
// does not group into exactly two foreign key constraints.
type MalformedJunctionError struct {
	Table           string
	ForeignKeyCount int
}

func (e *MalformedJunctionError) Error() string {
	return fmt.Sprintf("junction table %s has %d foreign keys, expected exactly 2",
		e.Table, e.ForeignKeyCount)
}
