package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"catalogsync/internal/model"
	"catalogsync/internal/normalize"
)

const prompt = `You classify supplier product pages for a manufacturing inventory.
A "part" is a discrete component bought by count (fasteners, bearings, motors, connectors).
A "material" is raw stock bought by size or quantity (sheet, plate, bar, rod, tube, filament, resin).
Answer "unknown" when the page is neither or you cannot tell.

Return ONLY JSON: {"type": "part" | "material" | "unknown", "reason": "<one short sentence>"}`

// MaxPageText bounds the page text sent with a record, in runes.
const MaxPageText = 4000

var ErrNoAnswer = errors.New("advisor returned no answer")

// Suggestion is the model's opinion on a product's type.
type Suggestion struct {
	Type   model.ProductType `json:"type"`
	Reason string            `json:"reason"`
}

// ChatClient is the part of the OpenAI client the advisor uses.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type OpenAIAdvisor struct {
	client ChatClient
	model  string
}

func NewOpenAIAdvisor(apiKey, modelName string) *OpenAIAdvisor {
	return New(openai.NewClient(apiKey), modelName)
}

func New(client ChatClient, modelName string) *OpenAIAdvisor {
	if modelName == "" {
		modelName = openai.GPT4oMini
	}
	return &OpenAIAdvisor{client: client, model: modelName}
}

// Advise asks the model whether r is a part or a material. pageText is
// the visible text of the page r was extracted from and may be empty.
func (a *OpenAIAdvisor) Advise(ctx context.Context, r *model.ProductRecord, pageText string) (Suggestion, error) {
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt},
			{Role: openai.ChatMessageRoleUser, Content: userMessage(r, pageText)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
		Temperature:    0.0,
	})
	if err != nil {
		return Suggestion{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Suggestion{}, ErrNoAnswer
	}

	var s Suggestion
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &s); err != nil {
		return Suggestion{}, fmt.Errorf("decode advisor answer: %w", err)
	}
	s.Type = model.ProductType(strings.ToLower(strings.TrimSpace(string(s.Type))))
	switch s.Type {
	case model.TypePart, model.TypeMaterial, model.TypeUnknown:
	default:
		return Suggestion{}, fmt.Errorf("advisor answered unsupported type %q", s.Type)
	}
	return s, nil
}

func userMessage(r *model.ProductRecord, pageText string) string {
	msg := RecordText(r)
	pageText = strings.TrimSpace(pageText)
	if pageText == "" {
		return msg
	}
	if runes := []rune(pageText); len(runes) > MaxPageText {
		pageText = string(runes[:MaxPageText])
	}
	return msg + "\n--- Page text ---\n" + pageText + "\n"
}

// RecordText renders the fields of a record that matter for classification.
func RecordText(r *model.ProductRecord) string {
	var sb strings.Builder

	sb.WriteString(r.Name + "\n\n")
	if r.Description != "" {
		sb.WriteString("Description:\n" + r.Description + "\n\n")
	}

	sb.WriteString("--- Attributes ---\n")
	sb.WriteString("URL: " + r.URL + "\n")
	if r.Brand != "" {
		sb.WriteString("Brand: " + r.Brand + "\n")
	}
	if r.SKU != "" {
		sb.WriteString("SKU: " + r.SKU + "\n")
	}
	if r.MaterialType != "" {
		sb.WriteString("Material: " + r.MaterialType + "\n")
	}
	if r.Price != nil {
		sb.WriteString("Price: " + normalize.FormatNumber(*r.Price) + " " + r.Currency + "\n")
	}
	for _, axis := range []struct {
		label string
		v     *float64
	}{
		{"Length", r.Dimensions.Length},
		{"Width", r.Dimensions.Width},
		{"Height", r.Dimensions.Height},
		{"Diameter", r.Dimensions.Diameter},
	} {
		if axis.v != nil {
			sb.WriteString(axis.label + ": " + normalize.Plain(*axis.v) + " " + r.Dimensions.Unit + "\n")
		}
	}

	return sb.String()
}
