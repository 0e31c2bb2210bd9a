package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kompas-ai/kompas/api"
)

func Test_client_chat(t *testing.T) {
	expectReq := api.ChatRequest{
		Content: []*api.Message{api.NewTextMessage("user", "text")},
	}
	expectRes := &api.ChatResponse{Text: "text-response"}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var gotReq api.ChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		assert.Equal(t, expectReq, gotReq)

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(expectRes))
	}))
	defer ts.Close()

	cli := api.NewClient(ts.URL, "test-key")
	actRes, err := cli.Chat(t.Context(), expectReq)
	require.NoError(t, err)
	assert.Equal(t, expectRes, actRes)
}

func Test_client_chat_error_status(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"bad json format"}`))
	}))
	defer ts.Close()

	cli := api.NewClient(ts.URL, "")
	_, err := cli.Chat(t.Context(), api.ChatRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}

func Test_client_session_flow(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/sessions", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(api.Session{ID: "abc", State: "idle"})
	})
	mux.HandleFunc("POST /v1/sessions/abc/messages", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "hello", in["content"])
		json.NewEncoder(w).Encode(api.Turn{Role: "assistant", Content: "hi there"})
	})
	mux.HandleFunc("GET /v1/sessions/abc", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.Session{
			ID:    "abc",
			State: "idle",
			Turns: []api.Turn{{Role: "user", Content: "hello"}, {Role: "assistant", Content: "hi there"}},
		})
	})
	mux.HandleFunc("POST /v1/sessions/abc/reset", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.Session{ID: "abc", State: "idle"})
	})

	ts := httptest.NewServer(mux)
	defer ts.Close()

	cli := api.NewClient(ts.URL, "")

	s, err := cli.CreateSession(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "abc", s.ID)

	reply, err := cli.Send(t.Context(), s.ID, "hello")
	require.NoError(t, err)
	assert.Equal(t, "hi there", reply.Content)

	got, err := cli.GetSession(t.Context(), s.ID)
	require.NoError(t, err)
	assert.Len(t, got.Turns, 2)

	reset, err := cli.ResetSession(t.Context(), s.ID)
	require.NoError(t, err)
	assert.Empty(t, reset.Turns)
}
