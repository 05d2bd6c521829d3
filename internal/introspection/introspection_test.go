package introspection

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mysql-beangen/internal/sqltype"
)

func TestIntrospect(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() {
		_ = db.Close()
	}()

	mock.ExpectQuery("FROM INFORMATION_SCHEMA.TABLES").
		WillReturnRows(sqlmock.NewRows([]string{"TABLE_NAME", "TABLE_COMMENT"}).
			AddRow("posts", "").
			AddRow("users", "registered users"))

	// posts
	mock.ExpectQuery("FROM INFORMATION_SCHEMA.COLUMNS").
		WillReturnRows(sqlmock.NewRows([]string{
			"COLUMN_NAME", "DATA_TYPE", "COLUMN_TYPE", "COLUMN_COMMENT",
			"IS_NULLABLE", "COLUMN_DEFAULT", "EXTRA",
		}).
			AddRow("id", "bigint", "bigint(20)", "", "NO", nil, "auto_increment").
			AddRow("author_id", "bigint", "bigint(20)", "", "NO", nil, "").
			AddRow("status", "enum", "enum('draft','published')", "", "NO", "draft", ""))
	mock.ExpectQuery("FROM INFORMATION_SCHEMA.KEY_COLUMN_USAGE").
		WillReturnRows(sqlmock.NewRows([]string{"COLUMN_NAME"}).AddRow("id"))
	mock.ExpectQuery("FROM INFORMATION_SCHEMA.KEY_COLUMN_USAGE").
		WillReturnRows(sqlmock.NewRows([]string{
			"COLUMN_NAME", "REFERENCED_TABLE_NAME", "REFERENCED_COLUMN_NAME",
			"CONSTRAINT_NAME", "ORDINAL_POSITION",
		}).
			AddRow("author_id", "users", "id", "posts_ibfk_1", 1))
	mock.ExpectQuery("FROM INFORMATION_SCHEMA.STATISTICS").
		WillReturnRows(sqlmock.NewRows([]string{"INDEX_NAME", "NON_UNIQUE", "SEQ_IN_INDEX", "COLUMN_NAME"}).
			AddRow("PRIMARY", 0, 1, "id").
			AddRow("idx_author", 1, 1, "author_id"))

	// users
	mock.ExpectQuery("FROM INFORMATION_SCHEMA.COLUMNS").
		WillReturnRows(sqlmock.NewRows([]string{
			"COLUMN_NAME", "DATA_TYPE", "COLUMN_TYPE", "COLUMN_COMMENT",
			"IS_NULLABLE", "COLUMN_DEFAULT", "EXTRA",
		}).
			AddRow("id", "bigint", "bigint(20)", "", "NO", nil, "auto_increment").
			AddRow("name", "varchar", "varchar(255)", "display name", "YES", nil, ""))
	mock.ExpectQuery("FROM INFORMATION_SCHEMA.KEY_COLUMN_USAGE").
		WillReturnRows(sqlmock.NewRows([]string{"COLUMN_NAME"}).AddRow("id"))
	mock.ExpectQuery("FROM INFORMATION_SCHEMA.KEY_COLUMN_USAGE").
		WillReturnRows(sqlmock.NewRows([]string{
			"COLUMN_NAME", "REFERENCED_TABLE_NAME", "REFERENCED_COLUMN_NAME",
			"CONSTRAINT_NAME", "ORDINAL_POSITION",
		}))
	mock.ExpectQuery("FROM INFORMATION_SCHEMA.STATISTICS").
		WillReturnRows(sqlmock.NewRows([]string{"INDEX_NAME", "NON_UNIQUE", "SEQ_IN_INDEX", "COLUMN_NAME"}).
			AddRow("PRIMARY", 0, 1, "id"))

	schema, err := Introspect(context.Background(), db, "blog")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	require.Len(t, schema.Tables, 2)
	assert.Equal(t, "blog", schema.Name)

	posts := schema.Table("posts")
	require.NotNil(t, posts)
	require.Len(t, posts.Columns, 3)

	id := posts.Columns[0]
	assert.True(t, id.IsPrimaryKey)
	assert.True(t, id.IsAutoIncrement)
	assert.True(t, id.HasDefault, "auto-increment counts as database-supplied default")
	assert.Equal(t, sqltype.KindInt, id.Kind)

	status := posts.Columns[2]
	assert.Equal(t, sqltype.KindEnum, status.Kind)
	assert.Equal(t, []string{"draft", "published"}, status.EnumValues)
	assert.True(t, status.HasDefault)
	assert.Equal(t, "draft", status.ColumnDefault)

	require.Len(t, posts.ForeignKeys, 1)
	assert.Equal(t, "users", posts.ForeignKeys[0].ReferencedTable)
	require.Len(t, posts.Indexes, 2)
	assert.Equal(t, "PRIMARY", posts.Indexes[0].Name)
	assert.True(t, posts.Indexes[0].Unique)
	assert.False(t, posts.Indexes[1].Unique)

	users := schema.Table("users")
	require.NotNil(t, users)
	assert.Equal(t, "registered users", users.Comment)
	assert.True(t, users.Columns[1].IsNullable)
	assert.False(t, users.Columns[1].HasDefault)
}

func TestIntrospectTableError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() {
		_ = db.Close()
	}()

	mock.ExpectQuery("FROM INFORMATION_SCHEMA.TABLES").
		WillReturnError(assert.AnError)

	_, err = Introspect(context.Background(), db, "blog")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get tables")
}

func TestSchemaTableLookup(t *testing.T) {
	schema := &Schema{Tables: []Table{{Name: "users"}, {Name: "posts"}}}
	require.NotNil(t, schema.Table("posts"))
	assert.Nil(t, schema.Table("missing"))
}
