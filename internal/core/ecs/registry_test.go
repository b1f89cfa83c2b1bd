package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryConstructsByName(t *testing.T) {
	r := NewRegistry()
	r.Register("Health", func() Component { return &health{HP: 100} })

	c, err := r.New("Health")
	require.NoError(t, err)
	h, ok := c.(*health)
	require.True(t, ok)
	assert.Equal(t, 100, h.HP, "factory defaults applied")
}

func TestRegistryUnknownName(t *testing.T) {
	r := NewRegistry()
	_, err := r.New("Nope")
	assert.ErrorIs(t, err, ErrFactoryNotFound)
	_, err = r.Type("Nope")
	assert.ErrorIs(t, err, ErrFactoryNotFound)
}

func TestRegistryNameRoundTrip(t *testing.T) {
	r := NewRegistry()
	r.Register("Health", func() Component { return &health{} })

	typ, err := r.Type("Health")
	require.NoError(t, err)
	assert.Equal(t, TypeOf[health](), typ)
	assert.Equal(t, "Health", r.Name(&health{}))
	assert.Equal(t, []string{"Health"}, r.Names())
}
