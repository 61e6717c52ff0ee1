package llm

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/viper"
	"google.golang.org/genai"
)

const (
	// DefaultModel is the default Gemini model used for extraction,
	// categorization, and composition calls.
	DefaultModel = "gemini-2.5-flash"
	// DefaultMaxRetries bounds how often a failed completion call is retried
	// before the per-item failure is surfaced to the caller.
	DefaultMaxRetries = 3
	// baseBackoff is the delay before the first retry; it doubles per attempt.
	baseBackoff = 1 * time.Second
	// maxJitter is added to each backoff delay to avoid synchronized retries.
	maxJitter = 500 * time.Millisecond
	// defaultCallTimeout bounds a single completion call.
	defaultCallTimeout = 60 * time.Second
)

// Client represents a client for interacting with the Gemini completion API.
type Client struct {
	apiKey      string
	modelName   string
	maxRetries  int
	callTimeout time.Duration
	gClient     *genai.Client
}

// TextGenerationOptions contains options for a single completion call.
type TextGenerationOptions struct {
	MaxTokens      int32         // Maximum number of tokens to generate
	Temperature    float32       // Temperature for randomness (0.0 to 1.0)
	Model          string        // Model to use (optional, defaults to client's model)
	SystemPrompt   string        // Optional system instruction
	ResponseSchema *genai.Schema // Optional schema for structured JSON output
}

// NewClient creates a new LLM client.
// It supports multiple ways to get the API key (in order of preference):
// 1. Environment variable: GEMINI_API_KEY (or alternatives)
// 2. Viper configuration: ai.gemini.api_key
func NewClient(modelName string) (*Client, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		if apiKey = os.Getenv("GOOGLE_GEMINI_API_KEY"); apiKey == "" {
			if apiKey = os.Getenv("GOOGLE_AI_API_KEY"); apiKey == "" {
				apiKey = viper.GetString("ai.gemini.api_key")
			}
		}
	}
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required. Set GEMINI_API_KEY environment variable or ai.gemini.api_key in config file")
	}

	if modelName == "" {
		modelName = viper.GetString("ai.gemini.model")
		if modelName == "" {
			modelName = DefaultModel
		}
	}

	maxRetries := viper.GetInt("ai.gemini.max_retries")
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}

	callTimeout := defaultCallTimeout
	if d, err := time.ParseDuration(viper.GetString("ai.gemini.timeout")); err == nil && d > 0 {
		callTimeout = d
	}

	ctx := context.Background()
	gClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{
		apiKey:      apiKey,
		modelName:   modelName,
		maxRetries:  maxRetries,
		callTimeout: callTimeout,
		gClient:     gClient,
	}, nil
}

// ModelName returns the model the client was configured with.
func (c *Client) ModelName() string {
	return c.modelName
}

// GenerateText generates text using the LLM with the specified options.
// Calls are retried with bounded exponential backoff and jitter; the final
// error is returned unchanged so callers keep their per-item failure
// semantics.
func (c *Client) GenerateText(ctx context.Context, prompt string, options TextGenerationOptions) (string, error) {
	if prompt == "" {
		return "", fmt.Errorf("prompt cannot be empty")
	}

	modelName := c.modelName
	if options.Model != "" {
		modelName = options.Model
	}

	contents := []*genai.Content{{
		Parts: []*genai.Part{{Text: prompt}},
		Role:  "user",
	}}

	var config *genai.GenerateContentConfig
	if options.MaxTokens > 0 || options.Temperature > 0 || options.ResponseSchema != nil || options.SystemPrompt != "" {
		config = &genai.GenerateContentConfig{}
		if options.MaxTokens > 0 {
			config.MaxOutputTokens = options.MaxTokens
		}
		if options.Temperature > 0 {
			temp := options.Temperature
			config.Temperature = &temp
		}
		if options.SystemPrompt != "" {
			config.SystemInstruction = &genai.Content{
				Parts: []*genai.Part{{Text: options.SystemPrompt}},
			}
		}
		if options.ResponseSchema != nil {
			config.ResponseMIMEType = "application/json"
			config.ResponseSchema = options.ResponseSchema
		}
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(BackoffDelay(attempt)):
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
		resp, err := c.gClient.Models.GenerateContent(callCtx, modelName, contents, config)
		cancel()
		if err != nil {
			lastErr = err
			continue
		}

		text := resp.Text()
		if text == "" {
			lastErr = fmt.Errorf("empty response from model")
			continue
		}
		return text, nil
	}

	return "", fmt.Errorf("failed to generate text after %d attempts: %w", c.maxRetries+1, lastErr)
}

// BackoffDelay returns the delay before the given retry attempt (1-based):
// baseBackoff doubled per attempt, plus up to maxJitter of random jitter.
func BackoffDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := baseBackoff << (attempt - 1)
	return delay + time.Duration(rand.Int63n(int64(maxJitter)))
}
