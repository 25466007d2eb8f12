package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/helios-game/helios/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	Model          string `json:"model"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

// fakeCompletionServer answers every chat completion with content.
func fakeCompletionServer(t *testing.T, status int, content string, captured *capturedRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected authorization header %q", got)
		}
		body, _ := io.ReadAll(r.Body)
		if captured != nil {
			_ = json.Unmarshal(body, captured)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
			return
		}
		encoded, _ := json.Marshal(content)
		_, _ = fmt.Fprintf(w, `{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "deepseek-chat",
			"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": %s}}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
		}`, encoded)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(srv *httptest.Server) *OpenAIClient {
	return NewOpenAIClient(Options{APIKey: "test-key", BaseURL: srv.URL + "/", Model: DeepSeekModel})
}

func TestOpenAIClient_GenerateDialogue(t *testing.T) {
	var captured capturedRequest
	srv := fakeCompletionServer(t, http.StatusOK, `{"dialogue":"The gate stays shut."}`, &captured)
	c := newTestClient(srv)

	got, err := c.GenerateDialogue(context.Background(), domain.DialogueRequest{
		NPC:      domain.NPC{ID: "kael", Name: "Kael", CorePrompt: "You are a scavenger."},
		Username: "Ada",
		History: []domain.Turn{
			{Role: domain.TurnRolePlayer, Content: "Hello"},
			{Role: domain.TurnRoleNPC, Content: `{"dialogue":"What do you want?"}`},
		},
		Message: "Open the gate.",
	})
	require.NoError(t, err)
	assert.Equal(t, "The gate stays shut.", got)

	assert.Equal(t, DeepSeekModel, captured.Model)
	assert.Equal(t, "json_object", captured.ResponseFormat.Type)
	require.Len(t, captured.Messages, 4)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Contains(t, captured.Messages[0].Content, "Kael")
	assert.Contains(t, captured.Messages[0].Content, "Ada")
	assert.Equal(t, "user", captured.Messages[1].Role)
	assert.Equal(t, "assistant", captured.Messages[2].Role)
	assert.Equal(t, "user", captured.Messages[3].Role)
	assert.Contains(t, captured.Messages[3].Content, "Open the gate.")
}

func TestOpenAIClient_ScoreSentiment(t *testing.T) {
	srv := fakeCompletionServer(t, http.StatusOK, "```json\n{\"survival\": 0.1, \"idealism\": -0.1}\n```", nil)
	c := newTestClient(srv)

	got, err := c.ScoreSentiment(context.Background(), "Take the food and run.")
	require.NoError(t, err)
	assert.Equal(t, domain.BeliefDelta{Survival: 0.1, Idealism: -0.1}, got)
}

func TestOpenAIClient_GenerateReflection(t *testing.T) {
	var captured capturedRequest
	srv := fakeCompletionServer(t, http.StatusOK, `{"monologue":"I lied to Lyra.","choice_a":"Survive","choice_b":"Believe"}`, &captured)
	c := newTestClient(srv)

	got, err := c.GenerateReflection(context.Background(), domain.ReflectionRequest{
		Username: "Ada",
		Beliefs:  domain.BeliefVector{Survival: 0.6, Idealism: 0.4},
		Events:   []string{"Spoke to Lyra: 'I will help'", "Spoke to Kael: 'Leave them'"},
	})
	require.NoError(t, err)
	assert.Equal(t, "I lied to Lyra.", got.Monologue)
	assert.Equal(t, "Survive", got.ChoiceA)

	require.Len(t, captured.Messages, 1)
	assert.Contains(t, captured.Messages[0].Content, "- Spoke to Lyra: 'I will help'\n- Spoke to Kael: 'Leave them'")
	assert.Contains(t, captured.Messages[0].Content, "survival 0.60, idealism 0.40")
}

func TestOpenAIClient_ProviderError(t *testing.T) {
	srv := fakeCompletionServer(t, http.StatusInternalServerError, "", nil)
	c := newTestClient(srv)

	_, err := c.ScoreSentiment(context.Background(), "anything")
	assert.Error(t, err)

	_, err = c.GenerateDialogue(context.Background(), domain.DialogueRequest{Message: "hi"})
	assert.Error(t, err)
}

func TestNewClient_SingleAttemptOnProviderError(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(ProviderDeepSeek, Options{APIKey: "test-key", BaseURL: srv.URL + "/"})
	require.NoError(t, err)

	_, err = c.GenerateDialogue(context.Background(), domain.DialogueRequest{Message: "hi"})
	require.Error(t, err)
	assert.Equal(t, int32(1), hits.Load())

	_, err = c.ScoreSentiment(context.Background(), "anything")
	require.Error(t, err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestNewClient(t *testing.T) {
	_, err := NewClient(ProviderDeepSeek, Options{})
	assert.Error(t, err)

	c, err := NewClient(ProviderDeepSeek, Options{APIKey: "k"})
	require.NoError(t, err)
	oc, ok := c.(*OpenAIClient)
	require.True(t, ok)
	assert.Equal(t, DeepSeekModel, oc.model)
	assert.Equal(t, "deepseek", oc.system)

	c, err = NewClient(ProviderOpenAI, Options{APIKey: "k", Model: "gpt-4o"})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", c.(*OpenAIClient).model)

	c, err = NewClient(ProviderMock, Options{})
	require.NoError(t, err)
	assert.IsType(t, &MockClient{}, c)

	_, err = NewClient("gemini", Options{APIKey: "k"})
	assert.Error(t, err)
}
