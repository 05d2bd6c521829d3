package descriptor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCascadeDetach(t *testing.T) {
	model, err := Build(context.Background(), blogSchema(), blogJunctions(), nil)
	require.NoError(t, err)

	t.Run("one instruction per own object property", func(t *testing.T) {
		posts := model.Bean("posts")
		specs := posts.CascadeDetach()
		require.Len(t, specs, 1)
		assert.Equal(t, DetachSpec{
			Property:    "author",
			ForeignKey:  "fk_posts_author",
			TargetTable: "users",
		}, specs[0])
	})

	t.Run("scalar only beans detach nothing", func(t *testing.T) {
		assert.Empty(t, model.Bean("users").CascadeDetach())
		assert.Empty(t, model.Bean("tags").CascadeDetach())
	})

	t.Run("inherited references are not detached twice", func(t *testing.T) {
		// The admins bean declares no object property of its own; the
		// parent bean owns any detachment of inherited references.
		assert.Empty(t, model.Bean("admins").CascadeDetach())
	})
}

func TestSerializationPlan(t *testing.T) {
	model, err := Build(context.Background(), blogSchema(), blogJunctions(), nil)
	require.NoError(t, err)

	t.Run("object fields nest exactly one level", func(t *testing.T) {
		plan := model.SerializationPlan(model.Bean("posts"))
		require.Len(t, plan.Fields, 4)

		author := plan.Fields[1]
		assert.Equal(t, "author", author.Name)
		assert.Equal(t, "object", author.Kind)
		require.NotNil(t, author.Nested)
		assert.Equal(t, "users", author.Nested.Table)

		// The nested users plan must not recurse into users' collections
		// (which would lead straight back to posts).
		assert.Empty(t, author.Nested.Collections)
		for _, f := range author.Nested.Fields {
			assert.Nil(t, f.Nested)
		}
	})

	t.Run("collections appear at the top level only", func(t *testing.T) {
		plan := model.SerializationPlan(model.Bean("users"))
		require.Len(t, plan.Collections, 2)

		assert.Equal(t, "admins", plan.Collections[0].Name)
		assert.Equal(t, "collection", plan.Collections[0].Kind)
		assert.Equal(t, "posts", plan.Collections[1].Name)

		require.NotNil(t, plan.Collections[1].Nested)
		assert.Empty(t, plan.Collections[1].Nested.Collections)
	})

	t.Run("pivot collections carry the junction table", func(t *testing.T) {
		plan := model.SerializationPlan(model.Bean("posts"))
		require.Len(t, plan.Collections, 1)

		tags := plan.Collections[0]
		assert.Equal(t, "tags", tags.Name)
		assert.Equal(t, "pivot", tags.Kind)
		assert.Equal(t, "posts_tags", tags.Junction)
	})

	t.Run("cyclic relationships terminate", func(t *testing.T) {
		// posts -> author -> users -> posts would loop forever without the
		// one-level stop; just building both plans proves termination.
		_ = model.SerializationPlan(model.Bean("posts"))
		_ = model.SerializationPlan(model.Bean("users"))
	})
}

func TestDocument(t *testing.T) {
	model, err := Build(context.Background(), blogSchema(), blogJunctions(), nil)
	require.NoError(t, err)

	doc := model.Document("run-1")
	assert.Equal(t, "run-1", doc.RunID)
	assert.Equal(t, "blog", doc.Database)
	require.Len(t, doc.Beans, 4)

	t.Run("bean documents carry the derived model", func(t *testing.T) {
		admins := doc.Beans[1]
		assert.Equal(t, "admins", admins.Table)
		assert.Equal(t, "Admin", admins.Class)
		assert.Equal(t, "users", admins.Parent)
		assert.Equal(t, []string{"users", "admins"}, admins.UsedTables)
		assert.Equal(t, []string{"name", "clearance"}, admins.Constructor)

		names := make([]string, 0, len(admins.Properties))
		for _, p := range admins.Properties {
			names = append(names, p.Name)
		}
		assert.Equal(t, []string{"id", "name", "email", "status", "clearance"}, names)
	})

	t.Run("object properties carry foreign key metadata", func(t *testing.T) {
		posts := doc.Beans[2]
		var author *PropertyDocument
		for i := range posts.Properties {
			if posts.Properties[i].Name == "author" {
				author = &posts.Properties[i]
			}
		}
		require.NotNil(t, author)
		assert.Equal(t, "object", author.Kind)
		assert.Equal(t, "fk_posts_author", author.ForeignKey)
		assert.Equal(t, "users", author.TargetTable)
	})

	t.Run("methods distinguish direct and pivot accessors", func(t *testing.T) {
		users := doc.Beans[0]
		require.Len(t, users.Methods, 2)
		assert.Equal(t, "foreign_key", users.Methods[0].Kind)

		posts := doc.Beans[2]
		require.Len(t, posts.Methods, 1)
		assert.Equal(t, "pivot", posts.Methods[0].Kind)
		assert.Equal(t, "posts_tags", posts.Methods[0].Junction)
	})
}
