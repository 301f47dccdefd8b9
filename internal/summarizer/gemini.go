package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/hearing-digest/internal/job"
)

type generateFunc func(ctx context.Context, apiKey, model, prompt string) (string, error)

var errEmptyResponse = errors.New("empty response from Gemini")

// Summarize sends the prompt to Gemini. Rotates API keys on 429 / quota errors.
func (s *geminiSummarizer) Summarize(ctx context.Context, transcript string) (string, error) {
	if len(s.apiKeys) == 0 {
		return "", job.NewStageError(job.StageSummary, job.LaunchFailure, "no Gemini API keys configured", nil)
	}

	prompt := BuildPrompt(transcript)
	var lastErr error

	for range len(s.apiKeys) {
		key, idx := s.key()

		text, err := s.generate(ctx, key, s.model, prompt)
		if err != nil {
			if errors.Is(err, errEmptyResponse) {
				return "", job.NewStageError(job.StageSummary, job.EmptyResultFailure, err.Error(), err)
			}
			if isRateLimited(err) {
				s.logger.Warn(ctx, "Key %d rate limited, rotating...", idx+1)
				s.rotateKey(idx)
				lastErr = err
				continue
			}
			return "", job.NewStageError(job.StageSummary, job.ToolFailure,
				fmt.Sprintf("generate content: %v", err), err)
		}

		text = strings.TrimSpace(text)
		if text == "" {
			return "", job.NewStageError(job.StageSummary, job.EmptyResultFailure, errEmptyResponse.Error(), nil)
		}
		s.logger.Info(ctx, "Summary generated by %s (%d chars)", s.model, len(text))
		return text, nil
	}

	return "", job.NewStageError(job.StageSummary, job.ToolFailure,
		fmt.Sprintf("all API keys exhausted: %v", lastErr), lastErr)
}

func (s *geminiSummarizer) key() (string, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apiKeys[s.currentKey], s.currentKey
}

// rotateKey advances past idx unless another job already did.
func (s *geminiSummarizer) rotateKey(idx int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentKey == idx {
		s.currentKey = (s.currentKey + 1) % len(s.apiKeys)
	}
}

func isRateLimited(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

func generateWithGenAI(ctx context.Context, apiKey, model, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("create client: %w", err)
	}

	result, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}

	if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
		var text string
		for _, part := range result.Candidates[0].Content.Parts {
			if part.Text != "" {
				text += part.Text
			}
		}
		return text, nil
	}

	return "", errEmptyResponse
}
