package discovery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/yanqian/poppy/internal/infra/llm/chatgpt"
	apperrors "github.com/yanqian/poppy/pkg/errors"
	"github.com/yanqian/poppy/pkg/metrics"
)

// fallbackCandidates is served whenever the LLM reply cannot be parsed. The
// list is fixed so repeated parse failures stay deterministic.
var fallbackCandidates = []Candidate{
	{Title: "The Grand Budapest Hotel", Kind: KindMovie, Reason: "A whimsical, beautifully crafted film perfect for your mood."},
	{Title: "Avatar: The Last Airbender", Kind: KindTV, Reason: "An epic adventure with heart and stunning visuals."},
	{Title: "Spirited Away", Kind: KindMovie, Reason: "A magical journey that captures wonder and emotion."},
	{Title: "Ted Lasso", Kind: KindTV, Reason: "Heartwarming comedy that lifts spirits and inspires."},
	{Title: "Your Name", Kind: KindMovie, Reason: "A beautiful animated film about connection and fate."},
}

func fallbackInterpretation(mood string) Interpretation {
	return Interpretation{
		Summary:    fmt.Sprintf("I understand you're looking for something that matches your '%s' vibe.", mood),
		Candidates: append([]Candidate(nil), fallbackCandidates...),
		Fallback:   true,
	}
}

// interpret asks the curator model for up to MaxCandidates titles matching
// the mood. A transport failure propagates; a malformed reply degrades to the
// fixed fallback set.
func (s *service) interpret(ctx context.Context, mood string) (Interpretation, error) {
	messages := []chatgpt.Message{
		{Role: "system", Content: s.buildSystemPrompt()},
		{Role: "user", Content: mood},
	}

	usage := metrics.EstimatePromptTokens(s.cfg.Model, messages[0].Content, messages[1].Content)
	if !usage.IsZero() {
		s.logger.Debug("mood prompt prepared", "prompt_tokens", usage.PromptTokens)
	}

	completion, err := s.chat.CreateChatCompletion(ctx, chatgpt.ChatCompletionRequest{
		Model:       s.cfg.Model,
		Messages:    messages,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return Interpretation{}, apperrors.Wrap("llm_error", "chat completion request failed", err)
	}
	if !completion.Usage.IsZero() {
		s.logger.Debug("mood prompt usage reported", "prompt_tokens", completion.Usage.PromptTokens, "total_tokens", completion.Usage.TotalTokens)
	}

	if len(completion.Choices) == 0 {
		s.logger.Warn("llm returned no choices, using fallback candidates")
		return fallbackInterpretation(mood), nil
	}

	parsed, err := parseInterpretation(completion.Choices[0].Message.Content, s.cfg.MaxCandidates)
	if err != nil {
		s.logger.Warn("llm reply unparseable, using fallback candidates", "error", err)
		return fallbackInterpretation(mood), nil
	}
	return parsed, nil
}

func (s *service) buildSystemPrompt() string {
	base := strings.TrimSpace(s.cfg.Prompt)
	enforcer := ` Respond ONLY with valid JSON using this exact shape: {"mood_interpretation":"Brief interpretation of the user's mood and what they're looking for","recommendations":[{"title":"Movie/Show Title","type":"movie" or "tv","reason":"Why this matches their vibe in 1-2 sentences"}]}. Provide exactly 5 recommendations. Never return plain text or other fields.`
	return base + enforcer
}

type interpretationWire struct {
	MoodInterpretation string `json:"mood_interpretation"`
	Recommendations    []struct {
		Title  string `json:"title"`
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"recommendations"`
}

func parseInterpretation(raw string, maxCandidates int) (Interpretation, error) {
	sanitized := strings.TrimSpace(raw)
	sanitized = strings.TrimPrefix(sanitized, "```json")
	sanitized = strings.TrimSuffix(sanitized, "```")
	sanitized = strings.Trim(sanitized, "`")
	sanitized = strings.TrimSpace(strings.TrimPrefix(sanitized, "json"))

	var wire interpretationWire
	if err := json.Unmarshal([]byte(sanitized), &wire); err != nil {
		return Interpretation{}, err
	}

	candidates := make([]Candidate, 0, maxCandidates)
	for _, rec := range wire.Recommendations {
		if len(candidates) == maxCandidates {
			break
		}
		title := strings.TrimSpace(rec.Title)
		if title == "" {
			continue
		}
		reason := strings.TrimSpace(rec.Reason)
		if reason == "" {
			reason = "Perfect match for your current vibe!"
		}
		candidates = append(candidates, Candidate{
			Title:  title,
			Kind:   ParseKind(strings.ToLower(strings.TrimSpace(rec.Type))),
			Reason: reason,
		})
	}
	if len(candidates) == 0 {
		return Interpretation{}, errors.New("no usable recommendations in reply")
	}

	return Interpretation{
		Summary:    strings.TrimSpace(wire.MoodInterpretation),
		Candidates: candidates,
	}, nil
}
