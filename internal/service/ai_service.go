package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"lingochat_backend/internal/config"
	"lingochat_backend/internal/util"
	"lingochat_backend/pkg/logger"
	"lingochat_backend/pkg/monitoring"
	"lingochat_backend/pkg/tracing"
	"net/http"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ChatCompleter 语言模型网关：输入按角色标注的消息列表，返回生成的回复
type ChatCompleter interface {
	Complete(ctx context.Context, messages []ChatMessage) (string, error)
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message ChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// AIService 兼容 OpenAI 协议的 HTTP 客户端，进程内只构造一次，配置可热更新
type AIService struct {
	mu     sync.RWMutex
	config config.AIConfig
	client *http.Client
}

func NewAIService(cfg config.AIConfig) *AIService {
	return &AIService{
		config: cfg,
		client: &http.Client{Timeout: timeoutOrDefault(cfg)},
	}
}

func timeoutOrDefault(cfg config.AIConfig) time.Duration {
	if cfg.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return cfg.Timeout()
}

// UpdateConfig 配置热更新回调
func (s *AIService) UpdateConfig(cfg config.AIConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = cfg
	s.client = &http.Client{Timeout: timeoutOrDefault(cfg)}
}

func (s *AIService) snapshot() (config.AIConfig, *http.Client) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config, s.client
}

// retryableError 网络错误、429 和 5xx 可以重试
type retryableError struct {
	err error
}

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

func (s *AIService) Complete(ctx context.Context, messages []ChatMessage) (string, error) {
	cfg, client := s.snapshot()

	ctx, span := tracing.StartSpan(ctx, "llm.chat_completion",
		attribute.String("llm.model", cfg.Model),
		attribute.Int("llm.messages", len(messages)),
	)
	defer span.End()

	start := time.Now()
	reply, err := s.completeWithRetry(ctx, client, cfg, messages)
	monitoring.GatewayDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		monitoring.GatewayRequests.WithLabelValues("error").Inc()
		tracing.RecordError(span, err)
		return "", &util.GatewayError{Op: "chat completion", Err: err}
	}

	monitoring.GatewayRequests.WithLabelValues("ok").Inc()
	return reply, nil
}

func (s *AIService) completeWithRetry(ctx context.Context, client *http.Client, cfg config.AIConfig, messages []ChatMessage) (string, error) {
	if cfg.APIKey == "" {
		return "", errors.New("AI api key is not configured")
	}

	body, err := json.Marshal(ChatCompletionRequest{
		Model:       cfg.Model,
		Messages:    messages,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
	})
	if err != nil {
		return "", err
	}

	attempts := cfg.MaxRetries + 1
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		reply, err := s.doRequest(ctx, client, cfg, body)
		if err == nil {
			return reply, nil
		}
		lastErr = err

		var retryable *retryableError
		if !errors.As(err, &retryable) || attempt == attempts {
			break
		}

		logger.Log.Warn("chat completion failed, retrying",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)

		backoff := time.Duration(attempt) * 500 * time.Millisecond
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(backoff):
		}
	}
	return "", lastErr
}

func (s *AIService) doRequest(ctx context.Context, client *http.Client, cfg config.AIConfig, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", err
		}
		return "", &retryableError{err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &retryableError{err: err}
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(respBody))
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return "", &retryableError{err: apiErr}
		}
		return "", apiErr
	}

	var result ChatCompletionResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", err
	}

	if result.Error != nil {
		return "", fmt.Errorf("AI API error: %s", result.Error.Message)
	}

	if len(result.Choices) > 0 {
		return result.Choices[0].Message.Content, nil
	}

	return "", errors.New("AI returned no choices")
}
