package admin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttributesTypedAccess(t *testing.T) {
	attrs := NewAttributes()
	attrs.Put("max_users", 5)
	attrs.Put("group_name", "java-01")

	n, err := attrs.Int("max_users")
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	s, err := attrs.String("group_name")
	require.NoError(t, err)
	assert.Equal(t, "java-01", s)
}

func TestAttributesMissingAndWrongType(t *testing.T) {
	attrs := NewAttributes()
	attrs.Put("max_users", "five")

	_, err := attrs.String("missing")
	assert.ErrorIs(t, err, ErrAttributeMissing)

	_, err = attrs.Int("max_users")
	assert.ErrorIs(t, err, ErrAttributeType)

	var keyErr *KeyError
	require.ErrorAs(t, err, &keyErr)
	assert.Equal(t, "max_users", keyErr.Key)
}

func TestAttributesLastWriteWins(t *testing.T) {
	attrs := NewAttributes()
	attrs.Put("k", 1)
	attrs.Put("k", 2)

	assert.Equal(t, 2, attrs.MustInt("k"))
	assert.Equal(t, 1, attrs.Len())
}

func TestAttributesMustPanicsOnMiss(t *testing.T) {
	attrs := NewAttributes()
	assert.Panics(t, func() { attrs.MustString("link") })
}
