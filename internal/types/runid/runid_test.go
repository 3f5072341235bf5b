package runid

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	first, second := Generate(), Generate()
	assert.NotEqual(t, first, second)

	parsed, err := Parse(strings.ToUpper(string(first)))
	require.NoError(t, err)
	assert.Equal(t, first, parsed)

	_, err = Parse("not-a-uuid")
	assert.Error(t, err)
}

func TestContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	id := Generate()
	got, ok := FromContext(NewContext(context.Background(), id))
	require.True(t, ok)
	assert.Equal(t, id, got)
}
