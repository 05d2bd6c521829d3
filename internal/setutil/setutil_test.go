package setutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEqual(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []string
		expected bool
	}{
		{name: "identical", a: []string{"id"}, b: []string{"id"}, expected: true},
		{name: "order ignored", a: []string{"a", "b"}, b: []string{"b", "a"}, expected: true},
		{name: "duplicates collapse", a: []string{"a", "a", "b"}, b: []string{"a", "b"}, expected: true},
		{name: "subset is not equal", a: []string{"a"}, b: []string{"a", "b"}, expected: false},
		{name: "disjoint", a: []string{"a"}, b: []string{"b"}, expected: false},
		{name: "both empty", a: nil, b: []string{}, expected: true},
		{name: "one empty", a: []string{"a"}, b: nil, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Equal(tt.a, tt.b))
			assert.Equal(t, tt.expected, Equal(tt.b, tt.a))
		})
	}
}

func TestCovers(t *testing.T) {
	assert.True(t, Covers([]string{"a", "b", "c"}, []string{"a", "c"}))
	assert.True(t, Covers([]string{"a"}, nil))
	assert.False(t, Covers([]string{"a"}, []string{"a", "b"}))
	assert.False(t, Covers(nil, []string{"a"}))
}

func TestContains(t *testing.T) {
	assert.True(t, Contains([]string{"x", "y"}, "y"))
	assert.False(t, Contains([]string{"x", "y"}, "z"))
	assert.False(t, Contains(nil, "x"))
}
