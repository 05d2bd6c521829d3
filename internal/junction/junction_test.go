package junction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mysql-beangen/internal/introspection"
)

func baseTables() []introspection.Table {
	return []introspection.Table{
		{
			Name:    "users",
			Columns: []introspection.Column{{Name: "id", IsPrimaryKey: true}},
		},
		{
			Name:    "roles",
			Columns: []introspection.Column{{Name: "id", IsPrimaryKey: true}},
		},
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		table    introspection.Table
		expected bool
	}{
		{
			name: "pure junction with composite PK",
			table: introspection.Table{
				Name: "user_roles",
				Columns: []introspection.Column{
					{Name: "user_id", IsPrimaryKey: true},
					{Name: "role_id", IsPrimaryKey: true},
				},
				ForeignKeys: []introspection.ForeignKey{
					{ColumnName: "user_id", ReferencedTable: "users", ReferencedColumn: "id", ConstraintName: "fk_user"},
					{ColumnName: "role_id", ReferencedTable: "roles", ReferencedColumn: "id", ConstraintName: "fk_role"},
				},
			},
			expected: true,
		},
		{
			name: "unique index instead of composite PK",
			table: introspection.Table{
				Name: "user_roles",
				Columns: []introspection.Column{
					{Name: "user_id"},
					{Name: "role_id"},
				},
				ForeignKeys: []introspection.ForeignKey{
					{ColumnName: "user_id", ReferencedTable: "users", ReferencedColumn: "id", ConstraintName: "fk_user"},
					{ColumnName: "role_id", ReferencedTable: "roles", ReferencedColumn: "id", ConstraintName: "fk_role"},
				},
				Indexes: []introspection.Index{
					{Name: "uq", Unique: true, Columns: []string{"user_id", "role_id"}},
				},
			},
			expected: true,
		},
		{
			name: "attribute column disqualifies",
			table: introspection.Table{
				Name: "user_roles",
				Columns: []introspection.Column{
					{Name: "user_id", IsPrimaryKey: true},
					{Name: "role_id", IsPrimaryKey: true},
					{Name: "granted_at"},
				},
				ForeignKeys: []introspection.ForeignKey{
					{ColumnName: "user_id", ReferencedTable: "users", ReferencedColumn: "id", ConstraintName: "fk_user"},
					{ColumnName: "role_id", ReferencedTable: "roles", ReferencedColumn: "id", ConstraintName: "fk_role"},
				},
			},
			expected: false,
		},
		{
			name: "nullable FK column disqualifies",
			table: introspection.Table{
				Name: "user_roles",
				Columns: []introspection.Column{
					{Name: "user_id", IsPrimaryKey: true},
					{Name: "role_id", IsPrimaryKey: true, IsNullable: true},
				},
				ForeignKeys: []introspection.ForeignKey{
					{ColumnName: "user_id", ReferencedTable: "users", ReferencedColumn: "id", ConstraintName: "fk_user"},
					{ColumnName: "role_id", ReferencedTable: "roles", ReferencedColumn: "id", ConstraintName: "fk_role"},
				},
			},
			expected: false,
		},
		{
			name: "no covering constraint disqualifies",
			table: introspection.Table{
				Name: "user_roles",
				Columns: []introspection.Column{
					{Name: "user_id"},
					{Name: "role_id"},
				},
				ForeignKeys: []introspection.ForeignKey{
					{ColumnName: "user_id", ReferencedTable: "users", ReferencedColumn: "id", ConstraintName: "fk_user"},
					{ColumnName: "role_id", ReferencedTable: "roles", ReferencedColumn: "id", ConstraintName: "fk_role"},
				},
			},
			expected: false,
		},
		{
			name: "both FKs to same table disqualifies",
			table: introspection.Table{
				Name: "follows",
				Columns: []introspection.Column{
					{Name: "follower_id", IsPrimaryKey: true},
					{Name: "followee_id", IsPrimaryKey: true},
				},
				ForeignKeys: []introspection.ForeignKey{
					{ColumnName: "follower_id", ReferencedTable: "users", ReferencedColumn: "id", ConstraintName: "fk_follower"},
					{ColumnName: "followee_id", ReferencedTable: "users", ReferencedColumn: "id", ConstraintName: "fk_followee"},
				},
			},
			expected: false,
		},
		{
			name: "only one FK disqualifies",
			table: introspection.Table{
				Name: "memberships",
				Columns: []introspection.Column{
					{Name: "user_id", IsPrimaryKey: true},
				},
				ForeignKeys: []introspection.ForeignKey{
					{ColumnName: "user_id", ReferencedTable: "users", ReferencedColumn: "id", ConstraintName: "fk_user"},
				},
			},
			expected: false,
		},
		{
			name: "referenced table missing from snapshot disqualifies",
			table: introspection.Table{
				Name: "user_groups",
				Columns: []introspection.Column{
					{Name: "user_id", IsPrimaryKey: true},
					{Name: "group_id", IsPrimaryKey: true},
				},
				ForeignKeys: []introspection.ForeignKey{
					{ColumnName: "user_id", ReferencedTable: "users", ReferencedColumn: "id", ConstraintName: "fk_user"},
					{ColumnName: "group_id", ReferencedTable: "groups", ReferencedColumn: "id", ConstraintName: "fk_group"},
				},
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schema := &introspection.Schema{Tables: append(baseTables(), tt.table)}
			junctions := Classify(schema)
			_, found := junctions[tt.table.Name]
			assert.Equal(t, tt.expected, found)
		})
	}
}

func TestClassifyOrdersConstraintsAlphabetically(t *testing.T) {
	schema := &introspection.Schema{Tables: append(baseTables(), introspection.Table{
		Name: "role_assignments",
		Columns: []introspection.Column{
			{Name: "user_id", IsPrimaryKey: true},
			{Name: "role_id", IsPrimaryKey: true},
		},
		ForeignKeys: []introspection.ForeignKey{
			{ColumnName: "user_id", ReferencedTable: "users", ReferencedColumn: "id", ConstraintName: "fk_user"},
			{ColumnName: "role_id", ReferencedTable: "roles", ReferencedColumn: "id", ConstraintName: "fk_role"},
		},
	})}

	junctions := Classify(schema)
	info, ok := junctions["role_assignments"]
	require.True(t, ok)
	assert.Equal(t, "roles", info.Left.ReferencedTable)
	assert.Equal(t, "users", info.Right.ReferencedTable)
}

func TestInfoOtherAndLocal(t *testing.T) {
	info := Info{
		Table: "posts_tags",
		Left:  introspection.ForeignKeyConstraint{ReferencedTable: "posts", ColumnNames: []string{"post_id"}},
		Right: introspection.ForeignKeyConstraint{ReferencedTable: "tags", ColumnNames: []string{"tag_id"}},
	}

	other, ok := info.Other("posts")
	require.True(t, ok)
	assert.Equal(t, "tags", other.ReferencedTable)

	local, ok := info.Local("tags")
	require.True(t, ok)
	assert.Equal(t, []string{"tag_id"}, local.ColumnNames)

	_, ok = info.Other("users")
	assert.False(t, ok)
}

func TestMapNamesSorted(t *testing.T) {
	m := Map{"b": {}, "a": {}, "c": {}}
	assert.Equal(t, []string{"a", "b", "c"}, m.Names())
}
