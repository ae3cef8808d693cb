package discovery

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/poppy/internal/infra/llm/chatgpt"
)

func TestParseInterpretationFencedJSON(t *testing.T) {
	raw := "```json\n{\"mood_interpretation\":\"You want comfort\",\"recommendations\":[{\"title\":\"Chef\",\"type\":\"movie\",\"reason\":\"Food and warmth.\"},{\"title\":\"The Bear\",\"type\":\"tv\",\"reason\":\"Kitchen intensity.\"}]}\n```"

	interp, err := parseInterpretation(raw, 5)
	require.NoError(t, err)
	require.Equal(t, "You want comfort", interp.Summary)
	require.Len(t, interp.Candidates, 2)
	require.Equal(t, "Chef", interp.Candidates[0].Title)
	require.Equal(t, KindMovie, interp.Candidates[0].Kind)
	require.Equal(t, KindTV, interp.Candidates[1].Kind)
	require.False(t, interp.Fallback)
}

func TestParseInterpretationCapsCandidates(t *testing.T) {
	raw := `{"mood_interpretation":"s","recommendations":[
		{"title":"A","type":"movie","reason":"r"},
		{"title":"B","type":"tv","reason":"r"},
		{"title":"C","type":"movie","reason":"r"},
		{"title":"D","type":"tv","reason":"r"},
		{"title":"E","type":"movie","reason":"r"},
		{"title":"F","type":"movie","reason":"r"}]}`

	interp, err := parseInterpretation(raw, 5)
	require.NoError(t, err)
	require.Len(t, interp.Candidates, 5)
	require.Equal(t, "E", interp.Candidates[4].Title)
}

func TestParseInterpretationUnknownKindDefaultsToMovie(t *testing.T) {
	raw := `{"mood_interpretation":"s","recommendations":[{"title":"A","type":"documentary","reason":"r"}]}`

	interp, err := parseInterpretation(raw, 5)
	require.NoError(t, err)
	require.Equal(t, KindMovie, interp.Candidates[0].Kind)
}

func TestParseInterpretationRejectsEmptyList(t *testing.T) {
	_, err := parseInterpretation(`{"mood_interpretation":"s","recommendations":[]}`, 5)
	require.Error(t, err)

	_, err = parseInterpretation(`{"mood_interpretation":"s","recommendations":[{"title":"  ","type":"movie"}]}`, 5)
	require.Error(t, err)
}

func TestInterpretFallbackIsDeterministic(t *testing.T) {
	svc := newTestService(t, &stubChatClient{responses: []string{"not json at all", "still not json"}})

	first, err := svc.interpret(context.Background(), "cozy rainy evening")
	require.NoError(t, err)
	second, err := svc.interpret(context.Background(), "cozy rainy evening")
	require.NoError(t, err)

	require.True(t, first.Fallback)
	require.Equal(t, first, second)
	require.Len(t, first.Candidates, 5)
	require.Equal(t, "The Grand Budapest Hotel", first.Candidates[0].Title)
	require.Contains(t, first.Summary, "cozy rainy evening")
}

func TestInterpretPropagatesTransportError(t *testing.T) {
	svc := newTestService(t, &stubChatClient{err: io.ErrUnexpectedEOF})

	_, err := svc.interpret(context.Background(), "anything")
	require.Error(t, err)
}

func newTestService(t *testing.T, chat ChatClient) *service {
	t.Helper()
	return &service{
		cfg: Config{
			Model:           "gpt-test",
			Temperature:     0.7,
			Prompt:          "You are a curator.",
			MaxCandidates:   5,
			HistoryLimit:    10,
			Country:         "us",
			PosterBaseURL:   "https://image.tmdb.org/t/p/w500",
			BackdropBaseURL: "https://image.tmdb.org/t/p/w1280",
		},
		chat:   chat,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

type stubChatClient struct {
	responses []string
	err       error
	calls     int
}

func (s *stubChatClient) CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error) {
	if s.err != nil {
		return chatgpt.ChatCompletionResponse{}, s.err
	}
	content := ""
	if s.calls < len(s.responses) {
		content = s.responses[s.calls]
	}
	s.calls++
	return chatResponse(content), nil
}

func chatResponse(content string) chatgpt.ChatCompletionResponse {
	return chatgpt.ChatCompletionResponse{
		Choices: []struct {
			Message chatgpt.Message `json:"message"`
		}{
			{Message: chatgpt.Message{Role: "assistant", Content: content}},
		},
	}
}
