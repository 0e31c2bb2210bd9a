package tooldef_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kompas-ai/kompas/kompas/agent/tooldef"
	_ "github.com/kompas-ai/kompas/kompas/agent/toolprovider"
	"github.com/kompas-ai/kompas/kompas/agent/toolprovider/citytime"
	"github.com/kompas-ai/kompas/kompas/agent/toolprovider/directions"
	"github.com/kompas-ai/kompas/kompas/agent/toolprovider/weather"
)

func Test_registered_tools(t *testing.T) {
	names := tooldef.RegisteredTools()
	assert.Contains(t, names, weather.Namespace)
	assert.Contains(t, names, citytime.Namespace)
	assert.Contains(t, names, directions.Namespace)
}

func Test_build(t *testing.T) {
	tools, err := tooldef.Build(t.Context(), []tooldef.Config{
		{Name: weather.Namespace},
		{Name: citytime.Namespace},
	})
	require.NoError(t, err)
	require.Len(t, tools, 2)

	defs := tools.Defs()
	assert.Equal(t, "get_weather", defs[0].Function.Name)
	assert.Equal(t, "get_current_time", defs[1].Function.Name)
}

func Test_build_unknown_tool(t *testing.T) {
	_, err := tooldef.Build(t.Context(), []tooldef.Config{{Name: "no-such-tool"}})
	require.Error(t, err)
}

func Test_build_skips_unconstructable(t *testing.T) {
	// directions cannot construct without an api key and is skipped,
	// the rest of the tools still build
	t.Setenv(directions.ENV_API_KEY, "")
	tools, err := tooldef.Build(t.Context(), []tooldef.Config{
		{Name: directions.Namespace},
		{Name: weather.Namespace},
	})
	require.NoError(t, err)
	require.Len(t, tools, 1)
	assert.Equal(t, "get_weather", tools[0].Def().Function.Name)
}
