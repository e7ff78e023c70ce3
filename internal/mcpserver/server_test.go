package mcpserver

import (
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginate(t *testing.T) {
	items := []int{0, 1, 2, 3, 4}

	tests := []struct {
		name   string
		items  []int
		offset int
		limit  int
		want   []int
	}{
		{name: "default limit returns all when under 100", items: items, want: []int{0, 1, 2, 3, 4}},
		{name: "explicit limit", items: items, limit: 2, want: []int{0, 1}},
		{name: "offset only", items: items, offset: 2, want: []int{2, 3, 4}},
		{name: "offset and limit", items: items, offset: 1, limit: 2, want: []int{1, 2}},
		{name: "offset beyond end", items: items, offset: 5, limit: 2, want: nil},
		{name: "negative offset", items: items, offset: -1, limit: 2, want: nil},
		{name: "limit exceeds remaining", items: items, offset: 3, limit: 10, want: []int{3, 4}},
		{name: "nil slice", items: nil, limit: 2, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, paginate(tt.items, tt.offset, tt.limit))
		})
	}
}

func TestPaginate_MaxLimitCaps(t *testing.T) {
	orig := cfg.MaxLimit
	cfg.MaxLimit = 3
	t.Cleanup(func() { cfg.MaxLimit = orig })

	assert.Equal(t, []int{0, 1, 2}, paginate([]int{0, 1, 2, 3, 4}, 0, 50))
}

func TestMakeSlice(t *testing.T) {
	assert.Nil(t, makeSlice[string](0))
	s := makeSlice[string](4)
	assert.NotNil(t, s)
	assert.Empty(t, s)
	assert.Equal(t, 4, cap(s))
}

func TestSanitizeError(t *testing.T) {
	assert.Empty(t, sanitizeError(nil))

	err := errors.New("loading /home/alice/schemas/http_example.com_a.json: not found")
	assert.Equal(t, "loading <path>: not found", sanitizeError(err))

	orig := cfg.SanitizeErrors
	cfg.SanitizeErrors = false
	t.Cleanup(func() { cfg.SanitizeErrors = orig })
	assert.Equal(t, err.Error(), sanitizeError(err))
}

func TestErrResult(t *testing.T) {
	result := errResult(errors.New("reading /tmp/x/schema.json failed"))
	require.True(t, result.IsError)
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Equal(t, "reading <path> failed", text.Text)
}

func TestNewServerRegistersTools(t *testing.T) {
	assert.NotNil(t, newServer())
}
