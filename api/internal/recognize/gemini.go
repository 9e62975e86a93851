package recognize

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"avbot/api/internal/util"
)

const DefaultModel = "gemini-2.5-flash"

// ErrNoPlate - на фото не нашлось читаемого номера.
var ErrNoPlate = errors.New("recognize: no plate on the image")

const systemPrompt = `You read vehicle license plates from photos.
Return ONLY JSON of the form {"plate": "<text>", "country": "<iso2 or empty>", "confidence": <0..1>}.
Copy the plate characters exactly as printed, keep the original alphabet (Cyrillic stays Cyrillic),
drop flags, frames and the country strip. If several plates are visible, take the largest one.
If no plate is readable, return {"plate": "", "confidence": 0}.`

type Gemini struct {
	APIKey string
	Model  string

	// MinConfidence - ниже этого порога ответ считается «номер не найден».
	MinConfidence float64
}

func NewGemini(apiKey, model string) *Gemini {
	model = strings.TrimSpace(model)
	if model == "" {
		model = DefaultModel
	}
	return &Gemini{
		APIKey:        strings.TrimSpace(apiKey),
		Model:         model,
		MinConfidence: 0.3,
	}
}

// ReadPlate отправляет картинку в Gemini и возвращает текст номера как есть;
// классификация и нормализация делаются дальше.
func (g *Gemini) ReadPlate(ctx context.Context, image []byte, mime string) (string, error) {
	if g.APIKey == "" {
		return "", errors.New("GEMINI_API_KEY is empty")
	}
	if len(image) == 0 {
		return "", errors.New("recognize: empty image")
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(g.APIKey))
	if err != nil {
		return "", err
	}
	defer cl.Close()

	m := cl.GenerativeModel(g.Model)
	if m == nil {
		return "", fmt.Errorf("gemini: model is nil")
	}
	m.GenerationConfig = genai.GenerationConfig{
		Temperature:      ptrFloat32(0),
		ResponseMIMEType: "application/json",
	}
	m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemPrompt)}}

	parts := []genai.Part{
		genai.Text("Read the license plate. JSON only."),
		&genai.Blob{MIMEType: util.PickMIME(mime, image), Data: image},
	}

	// ретраи на 5xx и прочие транзиентные сбои
	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		resp, err := m.GenerateContent(ctx, parts...)
		if err != nil {
			lastErr = err
			if werr := wait(ctx, time.Duration(attempt)*300*time.Millisecond); werr != nil {
				return "", werr
			}
			continue
		}
		txt := firstText(resp)
		if txt == "" {
			return "", fmt.Errorf("gemini read plate: empty response")
		}
		return parseAnswer(txt, g.MinConfidence)
	}
	return "", lastErr
}

type answer struct {
	Plate      string   `json:"plate"`
	Country    string   `json:"country"`
	Confidence *float64 `json:"confidence"`
}

// parseAnswer разбирает JSON ответа модели, в том числе обёрнутый в ```json.
func parseAnswer(txt string, minConfidence float64) (string, error) {
	txt = util.StripCodeFences(strings.TrimSpace(txt))
	var a answer
	if err := json.Unmarshal([]byte(txt), &a); err != nil {
		return "", fmt.Errorf("gemini read plate: bad JSON: %w", err)
	}
	plate := strings.Join(strings.Fields(a.Plate), " ")
	if plate == "" {
		return "", ErrNoPlate
	}
	if a.Confidence != nil && *a.Confidence < minConfidence {
		return "", ErrNoPlate
	}
	return plate, nil
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}

func wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func ptrFloat32(v float32) *float32 { return &v }
