package service

import (
	"clinplace_backend/internal/config"
	"clinplace_backend/internal/model"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeChatServer(t *testing.T, reply string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)

		resp := ChatCompletionResponse{}
		resp.Choices = []struct {
			Message AIChatMessage `json:"message"`
		}{
			{Message: AIChatMessage{Role: "assistant", Content: reply}},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func testAIService(baseURL string) *AIService {
	return NewAIService(config.AIConfig{
		BaseURL:        baseURL,
		APIKey:         "test-key",
		Model:          "test-model",
		TimeoutSeconds: 5,
	})
}

var testStandards = []model.AssessmentStandard{
	{ID: "std-1", ItemID: "1.1", Description: "Communicates effectively"},
	{ID: "std-2", ItemID: "6.3", Description: "Manages time"},
}

func TestMatchStandardsWellFormedReply(t *testing.T) {
	srv := fakeChatServer(t, `{"matched_ids": ["1.1", "6.3"]}`)
	defer srv.Close()

	res := testAIService(srv.URL).MatchStandards(context.Background(), "handover was clear and on time", testStandards)
	assert.False(t, res.Degraded)
	assert.Equal(t, []string{"1.1", "6.3"}, res.MatchedIDs)
}

func TestMatchStandardsStripsCodeFence(t *testing.T) {
	srv := fakeChatServer(t, "```json\n{\"matched_ids\": [\" 1.1 \"]}\n```")
	defer srv.Close()

	res := testAIService(srv.URL).MatchStandards(context.Background(), "clear handover", testStandards)
	assert.False(t, res.Degraded)
	assert.Equal(t, []string{"1.1"}, res.MatchedIDs)
}

// 模型回复不可用时降级为空匹配，绝不报错。
func TestMatchStandardsDegradesOnUnusableReply(t *testing.T) {
	cases := []struct {
		name  string
		reply string
	}{
		{"prose instead of json", "Sure! The feedback matches items 1.1 and 6.3."},
		{"matched_ids absent", `{"ids": ["1.1"]}`},
		{"matched_ids not a list", `{"matched_ids": "1.1"}`},
		{"matched_ids not strings", `{"matched_ids": [1, 2]}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := fakeChatServer(t, tc.reply)
			defer srv.Close()

			res := testAIService(srv.URL).MatchStandards(context.Background(), "some feedback", testStandards)
			assert.True(t, res.Degraded)
			require.NotNil(t, res.MatchedIDs)
			assert.Empty(t, res.MatchedIDs)
		})
	}
}

func TestMatchStandardsDegradesOnHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "rate limited"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	res := testAIService(srv.URL).MatchStandards(context.Background(), "some feedback", testStandards)
	assert.True(t, res.Degraded)
	assert.Empty(t, res.MatchedIDs)
}

func TestMatchStandardsDegradesOnUnreachableEndpoint(t *testing.T) {
	res := testAIService("http://127.0.0.1:1").MatchStandards(context.Background(), "some feedback", testStandards)
	assert.True(t, res.Degraded)
	assert.Empty(t, res.MatchedIDs)
}

func TestBuildMatchPromptListsCatalog(t *testing.T) {
	prompt := buildMatchPrompt("the student was late", testStandards)
	assert.Contains(t, prompt, "1.1: Communicates effectively")
	assert.Contains(t, prompt, "6.3: Manages time")
	assert.Contains(t, prompt, "the student was late")
	assert.Contains(t, prompt, "matched_ids")
}
