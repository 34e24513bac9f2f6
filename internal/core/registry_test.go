package core

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterLookup(t *testing.T) {
	reg := NewRegistry()
	reg.Register("Convert Case", Func(strings.ToUpper))
	reg.Register("Echo", Func(func(s string) string { return s }))

	c, ok := reg.Lookup("Convert Case")
	require.True(t, ok)
	out, err := c(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "ABC", out)

	_, ok = reg.Lookup("convert case")
	assert.False(t, ok, "lookup is exact")

	assert.Equal(t, []string{"Convert Case", "Echo"}, reg.Names())
	assert.Equal(t, 2, reg.Len())
}

func TestRegistry_NamesIsCopy(t *testing.T) {
	reg := NewRegistry()
	reg.Register("A", Func(strings.ToLower))

	names := reg.Names()
	names[0] = "mutated"
	assert.Equal(t, []string{"A"}, reg.Names())
}

func TestRegistry_RegisterPanics(t *testing.T) {
	reg := NewRegistry()
	reg.Register("A", Func(strings.ToLower))

	assert.Panics(t, func() { reg.Register("A", Func(strings.ToUpper)) }, "duplicate")
	assert.Panics(t, func() { reg.Register("", Func(strings.ToUpper)) }, "empty name")
	assert.Panics(t, func() { reg.Register("B", nil) }, "nil capability")
}
