package vfx

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAssetId(t *testing.T) {
	a, b := NewAssetId(), NewAssetId()
	assert.NotEqual(t, a, b)
	assert.Len(t, a.String(), 36)

	parsed, err := ParseAssetId(strings.ToUpper(string(a)))
	require.NoError(t, err)
	assert.Equal(t, a, parsed)

	_, err = ParseAssetId("not-a-uuid")
	assert.Error(t, err)
}
