package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoTool(t *testing.T, name string) Tool {
	t.Helper()
	tool, err := NewTool(name, "", func(_ context.Context, _ struct{}) (string, error) {
		return name, nil
	})
	require.NoError(t, err)
	return tool
}

func TestRegistry_RegisterResolve(t *testing.T) {
	reg := NewRegistry()
	tool := echoTool(t, "get_weather")
	require.NoError(t, reg.Register(tool))

	got, ok := reg.Resolve("get_weather")
	require.True(t, ok)
	assert.Same(t, tool, got)

	_, ok = reg.Resolve("missing")
	assert.False(t, ok)
}

func TestRegistry_Register_DuplicateFails(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(echoTool(t, "same")))
	err := reg.Register(echoTool(t, "same"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateTool)
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_Replace_KeepsSingleSchemaEntry(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(echoTool(t, "a")))
	require.NoError(t, reg.Register(echoTool(t, "b")))

	replacement, err := NewTool("a", "Replacement", func(_ context.Context, _ struct{}) (string, error) {
		return "new", nil
	})
	require.NoError(t, err)
	reg.Replace(replacement)

	schemas := reg.Schemas()
	require.Len(t, schemas, 2)
	assert.Equal(t, "a", schemas[0].Name)
	assert.Equal(t, "Replacement", schemas[0].Description)
	assert.Equal(t, "b", schemas[1].Name)

	got, ok := reg.Resolve("a")
	require.True(t, ok)
	out, err := got.Invoke(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "new", out)
}

func TestRegistry_Replace_NewNameAppends(t *testing.T) {
	reg := NewRegistry()
	reg.Replace(echoTool(t, "only"))
	require.Len(t, reg.Schemas(), 1)
}

func TestRegistry_Schemas_RegistrationOrder(t *testing.T) {
	reg := NewRegistry()
	for _, name := range []string{"zebra", "alpha", "mid"} {
		require.NoError(t, reg.Register(echoTool(t, name)))
	}
	schemas := reg.Schemas()
	require.Len(t, schemas, 3)
	assert.Equal(t, "zebra", schemas[0].Name)
	assert.Equal(t, "alpha", schemas[1].Name)
	assert.Equal(t, "mid", schemas[2].Name)
}

func TestRegistry_Schemas_EmptyIsNil(t *testing.T) {
	reg := NewRegistry()
	assert.Nil(t, reg.Schemas())
}

func TestRegistry_Use_WrapsExistingAndFutureTools(t *testing.T) {
	var wrapped []string
	mw := func(next Tool) Tool {
		wrapped = append(wrapped, next.Name())
		return next
	}
	reg := NewRegistry()
	require.NoError(t, reg.Register(echoTool(t, "before")))
	reg.Use(mw)
	require.NoError(t, reg.Register(echoTool(t, "after")))
	assert.ElementsMatch(t, []string{"before", "after"}, wrapped)
}

func TestRegistry_Use_ReplacesChainWithoutDoubleWrapping(t *testing.T) {
	count := func(n *int) Middleware {
		return func(next Tool) Tool {
			*n++
			return next
		}
	}
	var first, second int
	reg := NewRegistry()
	require.NoError(t, reg.Register(echoTool(t, "t")))
	reg.Use(count(&first))
	reg.Use(count(&second))
	assert.Equal(t, 1, first)
	assert.Equal(t, 1, second)
}
