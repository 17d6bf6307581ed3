package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// LLMConfig holds settings for the chat-completions backed oracle.
type LLMConfig struct {
	// BaseURL is the API root of an OpenAI-compatible endpoint
	BaseURL string
	APIKey  string
	Model   string
	// Timeout bounds each HTTP call; the validator additionally bounds
	// the whole check via context
	Timeout time.Duration
	// MaxRetries is the number of retries after a failed or rate-limited call
	MaxRetries int
}

// DefaultLLMConfig returns sensible defaults for the LLM oracle.
func DefaultLLMConfig() LLMConfig {
	return LLMConfig{
		BaseURL:    "https://api.openai.com/v1",
		Model:      "gpt-3.5-turbo",
		Timeout:    10 * time.Second,
		MaxRetries: 2,
	}
}

// LLM asks a chat-completions model whether a word is real. Answers are
// parsed loosely: the model is instructed to reply with a single word and
// the client looks for an affirmative.
type LLM struct {
	cfg    LLMConfig
	client *http.Client
	logger *slog.Logger
}

var _ Oracle = (*LLM)(nil)

// NewLLM creates an LLM oracle
func NewLLM(cfg LLMConfig, logger *slog.Logger) *LLM {
	if cfg.Model == "" {
		cfg.Model = DefaultLLMConfig().Model
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultLLMConfig().Timeout
	}
	return &LLM{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger.With(slog.String("component", "oracle")),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

const retryBaseDelay = 500 * time.Millisecond

// IsValidWord asks the model whether the word is a real word in language.
func (o *LLM) IsValidWord(ctx context.Context, word, language string) (bool, error) {
	var prompt string
	if language == "vi" {
		prompt = fmt.Sprintf(
			`Từ "%s" có phải là một từ tiếng Việt hợp lệ không? Trả lời đúng một từ: "có" hoặc "không".`, word)
	} else {
		prompt = fmt.Sprintf(
			`Is %q a valid word in language %q? Answer with a single word: "yes" or "no".`, word, language)
	}

	answer, err := o.callChat(ctx, []chatMessage{{Role: "user", Content: prompt}})
	if err != nil {
		return false, err
	}

	lower := strings.ToLower(strings.Trim(strings.TrimSpace(answer), `"'.!`))
	if language == "vi" {
		// Prefix match: a refusal like "không có" contains "có" but is a no
		return strings.HasPrefix(lower, "có"), nil
	}
	return strings.HasPrefix(lower, "yes"), nil
}

// SuggestOpeningWord asks the model for a common word to start a chain with.
func (o *LLM) SuggestOpeningWord(ctx context.Context, language string) (string, error) {
	var prompt string
	if language == "vi" {
		prompt = `Cho một từ tiếng Việt thông dụng để bắt đầu trò chơi nối chữ. Chỉ trả lời từ đó, không giải thích.`
	} else {
		prompt = fmt.Sprintf(
			"Give one common word in language %q to start a word-chain game. Reply with the word only.", language)
	}

	answer, err := o.callChat(ctx, []chatMessage{{Role: "user", Content: prompt}})
	if err != nil {
		return "", err
	}

	word := strings.Trim(strings.TrimSpace(answer), `"'.`)
	if word == "" {
		return "", fmt.Errorf("oracle returned empty opening word")
	}
	return strings.ToLower(word), nil
}

// callChat performs a chat-completions call with retry on transport errors
// and rate limiting.
func (o *LLM) callChat(ctx context.Context, messages []chatMessage) (string, error) {
	reqBody := chatRequest{
		Model:       o.cfg.Model,
		Messages:    messages,
		Temperature: 0.3,
	}
	buf, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := strings.TrimSuffix(o.cfg.BaseURL, "/") + "/chat/completions"

	var lastErr error
	delay := retryBaseDelay

	for attempt := 0; attempt <= o.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(buf))
		if err != nil {
			return "", err
		}
		req.Header.Set("Authorization", "Bearer "+o.cfg.APIKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := o.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			_ = resp.Body.Close()
			lastErr = fmt.Errorf("oracle rate limited, attempt %d/%d", attempt+1, o.cfg.MaxRetries+1)
			continue
		}

		if resp.StatusCode >= 300 {
			_ = resp.Body.Close()
			return "", fmt.Errorf("oracle error status: %s", resp.Status)
		}

		var cr chatResponse
		err = json.NewDecoder(resp.Body).Decode(&cr)
		_ = resp.Body.Close()
		if err != nil {
			return "", err
		}

		if len(cr.Choices) == 0 {
			return "", fmt.Errorf("oracle returned no choices")
		}
		return cr.Choices[0].Message.Content, nil
	}

	return "", fmt.Errorf("oracle retries exhausted: %w", lastErr)
}
