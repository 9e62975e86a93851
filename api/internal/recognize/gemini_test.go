package recognize

import (
	"context"
	"testing"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnswer(t *testing.T) {
	plate, err := parseAnswer(`{"plate":"А 123  АА 77","country":"ru","confidence":0.93}`, 0.3)
	require.NoError(t, err)
	assert.Equal(t, "А 123 АА 77", plate)

	plate, err = parseAnswer("```json\n{\"plate\":\"RBB 1234\"}\n```", 0.3)
	require.NoError(t, err)
	assert.Equal(t, "RBB 1234", plate)

	_, err = parseAnswer(`{"plate":"","confidence":0}`, 0.3)
	assert.ErrorIs(t, err, ErrNoPlate)

	_, err = parseAnswer(`{"plate":"x1","confidence":0.1}`, 0.3)
	assert.ErrorIs(t, err, ErrNoPlate)

	_, err = parseAnswer("sorry, no idea", 0.3)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoPlate)
}

func TestFirstText(t *testing.T) {
	assert.Empty(t, firstText(nil))
	assert.Empty(t, firstText(&genai.GenerateContentResponse{}))

	resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
		{Content: nil},
		{Content: &genai.Content{Parts: []genai.Part{genai.Blob{MIMEType: "image/png"}, genai.Text(`{"plate":"a"}`)}}},
	}}
	assert.Equal(t, `{"plate":"a"}`, firstText(resp))
}

func TestNewGemini(t *testing.T) {
	g := NewGemini(" key ", "")
	assert.Equal(t, "key", g.APIKey)
	assert.Equal(t, DefaultModel, g.Model)

	_, err := NewGemini("", "").ReadPlate(context.Background(), []byte{1}, "")
	assert.EqualError(t, err, "GEMINI_API_KEY is empty")
}

func TestWaitHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, wait(ctx, time.Hour), context.Canceled)
}
