package descriptor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mysql-beangen/internal/introspection"
	"mysql-beangen/internal/junction"
)

func TestRelationshipMethods(t *testing.T) {
	model, err := Build(context.Background(), blogSchema(), blogJunctions(), nil)
	require.NoError(t, err)

	t.Run("incoming foreign keys become collection accessors", func(t *testing.T) {
		users := model.Bean("users")
		require.NotNil(t, users)

		// admins references users through its identity key, posts through
		// author_id; both surface as one-to-many accessors.
		assert.Equal(t, []string{"admins", "posts"}, methodNames(users.Methods()))

		posts := users.Methods()[1]
		acc, ok := posts.(*ForeignKeyAccessor)
		require.True(t, ok)
		assert.Equal(t, "posts", acc.TargetTable())
		assert.Equal(t, "fk_posts_author", acc.ForeignKey.ConstraintName)
	})

	t.Run("junction yields one pivot accessor on each side", func(t *testing.T) {
		posts := model.Bean("posts")
		tags := model.Bean("tags")
		require.NotNil(t, posts)
		require.NotNil(t, tags)

		assert.Equal(t, []string{"tags"}, methodNames(posts.Methods()))
		assert.Equal(t, []string{"posts"}, methodNames(tags.Methods()))

		pivot, ok := posts.Methods()[0].(*PivotAccessor)
		require.True(t, ok)
		assert.Equal(t, "posts_tags", pivot.JunctionTable)
		assert.Equal(t, "tags", pivot.TargetTable())
		assert.Equal(t, "fk_pt_post", pivot.LocalKey.ConstraintName)
		assert.Equal(t, "fk_pt_tag", pivot.RemoteKey.ConstraintName)
	})

	t.Run("junction table yields no bean", func(t *testing.T) {
		assert.Nil(t, model.Bean("posts_tags"))
		assert.Len(t, model.Beans(), 4)
	})

	t.Run("junction foreign keys yield no direct accessors", func(t *testing.T) {
		for _, bean := range model.Beans() {
			for _, m := range bean.Methods() {
				if acc, ok := m.(*ForeignKeyAccessor); ok {
					assert.NotEqual(t, "posts_tags", acc.SourceTable)
				}
			}
		}
	})
}

func TestSelfReferencingAccessor(t *testing.T) {
	schema := &introspection.Schema{
		Name: "tree",
		Tables: []introspection.Table{
			{
				Name: "categories",
				Columns: []introspection.Column{
					{Name: "id", IsPrimaryKey: true, IsAutoIncrement: true, HasDefault: true},
					{Name: "parent_id", IsNullable: true},
					{Name: "title"},
				},
				ForeignKeys: []introspection.ForeignKey{
					{ColumnName: "parent_id", ReferencedTable: "categories", ReferencedColumn: "id", ConstraintName: "fk_cat_parent", OrdinalPosition: 1},
				},
			},
		},
	}

	model, err := Build(context.Background(), schema, nil, nil)
	require.NoError(t, err)

	bean := model.Bean("categories")
	require.NotNil(t, bean)

	// The reference to the parent row and the accessor for child rows live
	// on the same bean.
	assert.Equal(t, []string{"id", "parent", "title"}, propertyNames(bean.Properties()))
	assert.Equal(t, []string{"categories"}, methodNames(bean.Methods()))
}

func TestMalformedJunction(t *testing.T) {
	schema := blogSchema()
	// Force-classify a single-key table as a junction.
	junctions := junction.Map{
		"posts": junction.Info{Table: "posts"},
	}

	_, err := Build(context.Background(), schema, junctions, nil)
	var malformed *MalformedJunctionError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "posts", malformed.Table)
	assert.Equal(t, 1, malformed.ForeignKeyCount)
}

func TestJunctionMissingFromSchema(t *testing.T) {
	junctions := junction.Map{
		"ghost": junction.Info{Table: "ghost"},
	}
	_, err := Build(context.Background(), blogSchema(), junctions, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
}
