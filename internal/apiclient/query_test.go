package apiclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildQueryParams(t *testing.T) {
	empty := ""
	page := 3

	tests := []struct {
		name   string
		params map[string]any
		want   string
	}{
		{"space is plus encoded", map[string]any{"search": "Block A"}, "search=Block+A"},
		{"nil and empty skipped", map[string]any{"search": "", "created_by": nil, "page": 1}, "page=1"},
		{"nil pointer skipped", map[string]any{"search": (*string)(nil)}, ""},
		{"pointer dereferenced", map[string]any{"search": &empty, "page": &page}, "page=3"},
		{"slices repeat the key", map[string]any{"role": []string{"SuperAdmin", "Pastor"}}, "role=SuperAdmin&role=Pastor"},
		{"bools are rendered", map[string]any{"is_allocated": false}, "is_allocated=false"},
		{"ordering prefix kept", map[string]any{"ordering": "-name"}, "ordering=-name"},
		{"no params", map[string]any{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildQueryParams(tt.params))
		})
	}
}
