package descriptor

import (
	"mysql-beangen/internal/introspection"
	"mysql-beangen/internal/junction"
	"mysql-beangen/internal/sqltype"
)

// blogSchema is the canonical fixture: a users/admins subtype hierarchy, a
// posts table referencing users, and a tags table joined to posts through
// the posts_tags junction.
func blogSchema() *introspection.Schema {
	return &introspection.Schema{
		Name: "blog",
		Tables: []introspection.Table{
			{
				Name: "users",
				Columns: []introspection.Column{
					{Name: "id", Kind: sqltype.KindInt, IsPrimaryKey: true, IsAutoIncrement: true, HasDefault: true},
					{Name: "name", Kind: sqltype.KindString},
					{Name: "email", Kind: sqltype.KindString, IsNullable: true},
					{Name: "status", Kind: sqltype.KindEnum, HasDefault: true, EnumValues: []string{"active", "banned"}},
				},
			},
			{
				Name: "admins",
				Columns: []introspection.Column{
					{Name: "id", Kind: sqltype.KindInt, IsPrimaryKey: true},
					{Name: "name", Kind: sqltype.KindString},
					{Name: "clearance", Kind: sqltype.KindInt},
				},
				ForeignKeys: []introspection.ForeignKey{
					{ColumnName: "id", ReferencedTable: "users", ReferencedColumn: "id", ConstraintName: "fk_admins_users", OrdinalPosition: 1},
				},
			},
			{
				Name: "posts",
				Columns: []introspection.Column{
					{Name: "id", Kind: sqltype.KindInt, IsPrimaryKey: true, IsAutoIncrement: true, HasDefault: true},
					{Name: "author_id", Kind: sqltype.KindInt},
					{Name: "title", Kind: sqltype.KindString},
					{Name: "body", Kind: sqltype.KindString, IsNullable: true},
				},
				ForeignKeys: []introspection.ForeignKey{
					{ColumnName: "author_id", ReferencedTable: "users", ReferencedColumn: "id", ConstraintName: "fk_posts_author", OrdinalPosition: 1},
				},
			},
			{
				Name: "tags",
				Columns: []introspection.Column{
					{Name: "id", Kind: sqltype.KindInt, IsPrimaryKey: true, IsAutoIncrement: true, HasDefault: true},
					{Name: "label", Kind: sqltype.KindString},
				},
			},
			{
				Name: "posts_tags",
				Columns: []introspection.Column{
					{Name: "post_id", Kind: sqltype.KindInt, IsPrimaryKey: true},
					{Name: "tag_id", Kind: sqltype.KindInt, IsPrimaryKey: true},
				},
				ForeignKeys: []introspection.ForeignKey{
					{ColumnName: "post_id", ReferencedTable: "posts", ReferencedColumn: "id", ConstraintName: "fk_pt_post", OrdinalPosition: 1},
					{ColumnName: "tag_id", ReferencedTable: "tags", ReferencedColumn: "id", ConstraintName: "fk_pt_tag", OrdinalPosition: 1},
				},
			},
		},
	}
}

func blogJunctions() junction.Map {
	return junction.Classify(blogSchema())
}

func propertyNames(props []Property) []string {
	names := make([]string, 0, len(props))
	for _, p := range props {
		names = append(names, p.FinalName())
	}
	return names
}

func methodNames(methods []Method) []string {
	names := make([]string, 0, len(methods))
	for _, m := range methods {
		names = append(names, m.FinalName())
	}
	return names
}
