package citytime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kompas-ai/kompas/kompas/agent"
	"github.com/kompas-ai/kompas/kompas/agent/tooldef"
)

func Test_call_fallback_time(t *testing.T) {
	p, err := New(tooldef.Config{})
	require.NoError(t, err)
	require.NoError(t, p.Ping(t.Context()))
	assert.Equal(t, "get_current_time", p.Def().Function.Name)

	resp, err := p.Call(t.Context(), agent.FunctionCall{
		Name:      "get_current_time",
		Arguments: `{"city":"London"}`,
	})
	require.NoError(t, err)
	assert.Equal(t, "success", resp.Output["status"])
	assert.Contains(t, resp.Output["report"], "The current time in London is")
}

func Test_call_unknown_city(t *testing.T) {
	p, err := New(tooldef.Config{})
	require.NoError(t, err)

	resp, err := p.Call(t.Context(), agent.FunctionCall{
		Name:      "get_current_time",
		Arguments: `{"city":"Nowhereville"}`,
	})
	require.NoError(t, err)
	assert.Equal(t, "error", resp.Output["status"])
	assert.Contains(t, resp.Output["error_message"], "Nowhereville")
}

func Test_call_bad_arguments(t *testing.T) {
	p, err := New(tooldef.Config{})
	require.NoError(t, err)

	resp, err := p.Call(t.Context(), agent.FunctionCall{
		Name:      "get_current_time",
		Arguments: `not json`,
	})
	require.NoError(t, err)
	assert.Contains(t, resp.Output, "error")
}
