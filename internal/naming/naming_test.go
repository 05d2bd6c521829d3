package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassName(t *testing.T) {
	n := Default()

	tests := []struct {
		table    string
		expected string
	}{
		{"users", "User"},
		{"user_profiles", "UserProfile"},
		{"people", "Person"},
		{"order_items", "OrderItem"},
	}

	for _, tt := range tests {
		t.Run(tt.table, func(t *testing.T) {
			assert.Equal(t, tt.expected, n.ClassName(tt.table))
		})
	}
}

func TestPropertyName(t *testing.T) {
	n := Default()

	assert.Equal(t, "createdAt", n.PropertyName("created_at"))
	assert.Equal(t, "id", n.PropertyName("id"))
	assert.Equal(t, "userName", n.PropertyName("user_name"))
}

func TestObjectPropertyName(t *testing.T) {
	n := Default()

	assert.Equal(t, "user", n.ObjectPropertyName("users"))
	assert.Equal(t, "orderItem", n.ObjectPropertyName("order_items"))
}

func TestReferencePropertyName(t *testing.T) {
	n := Default()

	assert.Equal(t, "author", n.ReferencePropertyName([]string{"author_id"}, "fk_author"))
	assert.Equal(t, "createdByUser", n.ReferencePropertyName([]string{"created_by_user_id"}, ""))
	assert.Equal(t, "owner", n.ReferencePropertyName([]string{"owner_fk"}, ""))
	// No FK suffix to strip: column name used as-is
	assert.Equal(t, "editor", n.ReferencePropertyName([]string{"editor"}, ""))
	// Empty column list falls back to constraint name
	assert.Equal(t, "fkParent", n.ReferencePropertyName(nil, "fk_parent"))
}

func TestCollectionName(t *testing.T) {
	n := Default()

	assert.Equal(t, "posts", n.CollectionName("posts"))
	assert.Equal(t, "comments", n.CollectionName("comment"))
	assert.Equal(t, "orderItems", n.CollectionName("order_items"))
}

func TestPrefixedCollectionName(t *testing.T) {
	n := Default()

	assert.Equal(t, "authorPosts", n.PrefixedCollectionName("author_id", "posts"))
	assert.Equal(t, "editorPosts", n.PrefixedCollectionName("editor_id", "posts"))
}

func TestViaCollectionName(t *testing.T) {
	n := Default()

	assert.Equal(t, "tagsViaPostsTags", n.ViaCollectionName("tags", "posts_tags"))
}

func TestPluralOverrides(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PluralOverrides["person"] = "people"
	cfg.SingularOverrides["people"] = "person"
	n := New(cfg, nil)

	assert.Equal(t, "people", n.Pluralize("person"))
	assert.Equal(t, "person", n.Singularize("people"))
	assert.Equal(t, "Person", n.ClassName("people"))
}

func TestReservedIdentifierSuffixed(t *testing.T) {
	n := Default()

	assert.Equal(t, "class_", n.PropertyName("class"))
	assert.Equal(t, "parent_", n.PropertyName("parent"))
	// Reserved check is case-insensitive on the final name
	assert.Equal(t, "Class_", n.ClassName("classes"))
	// Double-underscore prefix is reserved
	assert.Equal(t, "__meta_", n.PropertyName("__meta"))
}
