package introspection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnumValues(t *testing.T) {
	tests := []struct {
		name       string
		columnType string
		expected   []string
		wantErr    bool
	}{
		{name: "simple enum", columnType: "enum('a','b','c')", expected: []string{"a", "b", "c"}},
		{name: "set definition", columnType: "set('read','write')", expected: []string{"read", "write"}},
		{name: "doubled quote escape", columnType: "enum('it''s','plain')", expected: []string{"it's", "plain"}},
		{name: "backslash escape", columnType: `enum('a\'b')`, expected: []string{"a'b"}},
		{name: "spaces between values", columnType: "enum('a', 'b')", expected: []string{"a", "b"}},
		{name: "not an enum", columnType: "varchar(255)", wantErr: true},
		{name: "empty definition", columnType: "enum()", wantErr: true},
		{name: "missing quote", columnType: "enum(a,b)", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := parseEnumValues(tt.columnType)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, values)
		})
	}
}
