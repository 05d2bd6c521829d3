package descriptor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mysql-beangen/internal/introspection"
	"mysql-beangen/internal/naming"
)

func TestResolveOwnProperties(t *testing.T) {
	namer := naming.Default()
	schema := blogSchema()

	t.Run("scalar columns map one to one", func(t *testing.T) {
		users := schema.Table("users")
		props, err := resolveOwnProperties(*users, nil, namer)
		require.NoError(t, err)

		assert.Equal(t, []string{"id", "name", "email", "status"}, propertyNames(props))
		for _, p := range props {
			_, ok := p.(*ScalarProperty)
			assert.True(t, ok, "property %s should be scalar", p.FinalName())
		}
	})

	t.Run("foreign key column collapses to object property", func(t *testing.T) {
		posts := schema.Table("posts")
		props, err := resolveOwnProperties(*posts, nil, namer)
		require.NoError(t, err)

		assert.Equal(t, []string{"id", "author", "title", "body"}, propertyNames(props))

		author, ok := props[1].(*ObjectProperty)
		require.True(t, ok)
		assert.Equal(t, "users", author.TargetTable)
		assert.Equal(t, "fk_posts_author", author.ForeignKey.ConstraintName)
		assert.False(t, author.Nullable())
		assert.False(t, author.HasDefault())
		assert.False(t, author.IsPrimaryKey())
	})

	t.Run("multi column foreign key yields one property", func(t *testing.T) {
		table := introspection.Table{
			Name: "order_lines",
			Columns: []introspection.Column{
				{Name: "id", IsPrimaryKey: true},
				{Name: "order_region"},
				{Name: "order_number"},
				{Name: "quantity"},
			},
			ForeignKeys: []introspection.ForeignKey{
				{ColumnName: "order_region", ReferencedTable: "orders", ReferencedColumn: "region", ConstraintName: "fk_lines_order", OrdinalPosition: 1},
				{ColumnName: "order_number", ReferencedTable: "orders", ReferencedColumn: "number", ConstraintName: "fk_lines_order", OrdinalPosition: 2},
			},
		}
		props, err := resolveOwnProperties(table, nil, namer)
		require.NoError(t, err)

		// Composite keys name the reference after the target table.
		assert.Equal(t, []string{"id", "order", "quantity"}, propertyNames(props))

		order, ok := props[1].(*ObjectProperty)
		require.True(t, ok)
		assert.Equal(t, []string{"order_region", "order_number"}, order.ForeignKey.ColumnNames)
	})

	t.Run("identity foreign key columns are skipped", func(t *testing.T) {
		admins := schema.Table("admins")
		identity, err := identityForeignKey(*admins)
		require.NoError(t, err)
		require.NotNil(t, identity)

		props, err := resolveOwnProperties(*admins, identity, namer)
		require.NoError(t, err)

		// The id column is absorbed by inheritance, not emitted here.
		assert.Equal(t, []string{"name", "clearance"}, propertyNames(props))
	})

	t.Run("non identity key on primary key column still emits", func(t *testing.T) {
		admins := schema.Table("admins")
		props, err := resolveOwnProperties(*admins, nil, namer)
		require.NoError(t, err)

		// Without an identity designation the FK collapses as usual.
		assert.Equal(t, []string{"id", "name", "clearance"}, propertyNames(props))
		_, ok := props[0].(*ObjectProperty)
		assert.True(t, ok)
	})
}
