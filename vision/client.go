package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type Config struct {
	APIKey    string
	Model     string
	Providers []string
}

var config *Config

func Init(cfg *Config) {
	config = cfg
}

// OpenRouter API structures
type Message struct {
	Role    string    `json:"role"`
	Content []Content `json:"content"`
}

type Content struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

type ImageURL struct {
	URL string `json:"url"`
}

type ProviderPreferences struct {
	Order          []string `json:"order,omitempty"`
	AllowFallbacks *bool    `json:"allow_fallbacks,omitempty"`
}

type ChatRequest struct {
	Model       string               `json:"model"`
	Messages    []Message            `json:"messages"`
	Temperature float64              `json:"temperature"`
	MaxTokens   int                  `json:"max_tokens"`
	Provider    *ProviderPreferences `json:"provider,omitempty"`
}

type ChatResponse struct {
	Choices []Choice  `json:"choices"`
	Error   *APIError `json:"error,omitempty"`
}

type Choice struct {
	Message ResponseMessage `json:"message"`
}

type ResponseMessage struct {
	Content string `json:"content"`
}

type APIError struct {
	Message string      `json:"message"`
	Type    string      `json:"type"`
	Code    interface{} `json:"code"` // Can be string or number
}

const (
	maxRetries = 3
	prompt     = "Analyze this educational image and provide:\n\n" +
		"1. **Summary:** A brief, concise summary (2-3 sentences max) of the main concept shown.\n\n" +
		"2. **Multiple Choice Question:** Create a multiple choice question with 4 options (A, B, C, D) to test understanding. Mark the correct answer.\n\n" +
		"Format your response exactly as:\n" +
		"**Summary:**\n[Your concise summary here]\n\n" +
		"**Question:**\n[Your question here]\n" +
		"A) [Option A]\nB) [Option B]\nC) [Option C]\nD) [Option D]\n\n" +
		"**Correct Answer:** [Letter]"
)

// apiURL and initialDelay are variables so tests can point the client at a
// local server and skip the backoff sleeps.
var (
	apiURL       = "https://openrouter.ai/api/v1/chat/completions"
	initialDelay = 1 * time.Second
)

// getProviderPreferences returns provider preferences based on config
func getProviderPreferences() *ProviderPreferences {
	if config == nil || len(config.Providers) == 0 {
		// No providers specified, use default OpenRouter routing
		return nil
	}

	allowFallbacks := false
	return &ProviderPreferences{
		Order:          config.Providers,
		AllowFallbacks: &allowFallbacks,
	}
}

// Analyze sends a PNG image to the vision model and returns the parsed
// summary and multiple-choice question.
func Analyze(ctx context.Context, imageData []byte) (Analysis, error) {
	if config == nil {
		return Analysis{}, fmt.Errorf("vision client not initialized")
	}
	if config.APIKey == "" {
		return Analysis{}, fmt.Errorf("API key is required")
	}
	if config.Model == "" {
		return Analysis{}, fmt.Errorf("model is required")
	}

	// Encode image as base64 data URL
	base64Image := base64.StdEncoding.EncodeToString(imageData)
	imageURL := fmt.Sprintf("data:image/png;base64,%s", base64Image)

	request := ChatRequest{
		Model: config.Model,
		Messages: []Message{
			{
				Role: "user",
				Content: []Content{
					{
						Type: "text",
						Text: prompt,
					},
					{
						Type: "image_url",
						ImageURL: &ImageURL{
							URL: imageURL,
						},
					},
				},
			},
		},
		Temperature: 0.3,
		MaxTokens:   2000,
		Provider:    getProviderPreferences(),
	}

	// Retry logic with increasing delay
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(float64(initialDelay) * (1.5 * float64(attempt)))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return Analysis{}, ctx.Err()
			}
		}

		response, err := makeAPIRequest(ctx, request)
		if err != nil {
			if ctx.Err() != nil {
				return Analysis{}, ctx.Err()
			}
			lastErr = err
			continue
		}

		if len(response.Choices) == 0 {
			lastErr = fmt.Errorf("no choices in API response")
			continue
		}

		content := response.Choices[0].Message.Content
		if content == "" {
			lastErr = fmt.Errorf("empty response from model")
			continue
		}

		return ParseAnalysis(content)
	}

	return Analysis{}, fmt.Errorf("failed after %d attempts: %v", maxRetries, lastErr)
}

func makeAPIRequest(ctx context.Context, request ChatRequest) (*ChatResponse, error) {
	jsonData, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", config.APIKey))
	req.Header.Set("X-Title", "SnapLearn")

	client := &http.Client{Timeout: 45 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %v", err)
	}
	defer resp.Body.Close()

	var response ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %v", err)
	}

	if response.Error != nil {
		return nil, fmt.Errorf("API error: %s (type: %s, code: %v)", response.Error.Message, response.Error.Type, response.Error.Code)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	return &response, nil
}
