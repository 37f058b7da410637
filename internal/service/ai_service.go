package service

import (
	"bytes"
	"clinplace_backend/internal/config"
	"clinplace_backend/internal/model"
	"clinplace_backend/pkg/logger"
	"clinplace_backend/pkg/monitoring"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

type AIService struct {
	config config.AIConfig
	client *http.Client
}

// NewAIService 分类调用的超时独立于外层请求超时。
func NewAIService(cfg config.AIConfig) *AIService {
	return &AIService{
		config: cfg,
		client: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
	}
}

type AIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionRequest struct {
	Model    string          `json:"model"`
	Messages []AIChatMessage `json:"messages"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message AIChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// MatchResult 分类结果。Degraded 表示模型没给出可用回复，匹配列表
// 为空但不算请求失败——分类降级绝不能挡住反馈提交。
type MatchResult struct {
	MatchedIDs []string `json:"matched_ids"`
	Degraded   bool     `json:"-"`
}

// MatchStandards 把标准目录和反馈原文拼成单轮提示，调用一次模型，
// 严格校验返回的 JSON。解析失败一律降级为空匹配。
func (s *AIService) MatchStandards(ctx context.Context, text string, standards []model.AssessmentStandard) MatchResult {
	prompt := buildMatchPrompt(text, standards)

	reply, err := s.chat(ctx, prompt)
	if err != nil {
		logger.Log.Warn("AI classification call failed", zap.Error(err))
		monitoring.ClassificationCounter.WithLabelValues("call_failed").Inc()
		return MatchResult{MatchedIDs: []string{}, Degraded: true}
	}

	ids, err := parseMatchedIDs(reply)
	if err != nil {
		logger.Log.Warn("AI classification reply unusable",
			zap.String("reply", truncate(reply, 500)),
			zap.Error(err))
		monitoring.ClassificationCounter.WithLabelValues("malformed").Inc()
		return MatchResult{MatchedIDs: []string{}, Degraded: true}
	}

	monitoring.ClassificationCounter.WithLabelValues("ok").Inc()
	return MatchResult{MatchedIDs: ids}
}

func buildMatchPrompt(text string, standards []model.AssessmentStandard) string {
	var sb strings.Builder
	sb.WriteString("You are classifying clinical placement feedback against a fixed competency rubric.\n")
	sb.WriteString("Rubric items:\n")
	for _, st := range standards {
		fmt.Fprintf(&sb, "%s: %s\n", st.ItemID, st.Description)
	}
	sb.WriteString("\nFeedback text:\n")
	sb.WriteString(text)
	sb.WriteString("\n\nReturn ONLY a JSON object of the form {\"matched_ids\": [\"1.1\", ...]} ")
	sb.WriteString("listing the ids of rubric items this feedback explicitly or strongly implicitly addresses. ")
	sb.WriteString("Be conservative: when in doubt, leave an item out. No prose, no markdown, JSON only.")
	return sb.String()
}

// parseMatchedIDs 校验不可信的模型回复：去掉围栏和空白后必须是带
// matched_ids 字符串数组的 JSON 对象，其余一律视为不可用。
func parseMatchedIDs(reply string) ([]string, error) {
	cleaned := strings.TrimSpace(reply)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var payload map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, fmt.Errorf("reply is not a JSON object: %w", err)
	}

	raw, ok := payload["matched_ids"]
	if !ok {
		return nil, fmt.Errorf("matched_ids is absent")
	}

	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, fmt.Errorf("matched_ids is not a string list: %w", err)
	}

	result := make([]string, 0, len(ids))
	for _, id := range ids {
		if trimmed := strings.TrimSpace(id); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result, nil
}

func (s *AIService) chat(ctx context.Context, prompt string) (string, error) {
	reqBody := ChatCompletionRequest{
		Model: s.config.Model,
		Messages: []AIChatMessage{
			{Role: "user", Content: prompt},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.config.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result ChatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}

	if result.Error != nil {
		return "", fmt.Errorf("AI API error: %s", result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("AI returned no choices")
	}

	return result.Choices[0].Message.Content, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
