package report

import (
	"context"
	"errors"
	"fmt"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const DefaultNarratorModel = string(anthropic.ModelClaudeSonnet4_20250514)

const narratorSystemPrompt = "You explain multi-criteria decision results to non-specialists. " +
	"Use only the numbers you are given and do not invent facts. Answer in at most two short paragraphs of plain text."

type AnthropicMessager interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

type AnthropicClientCreator func(apiKey string) AnthropicMessager

func defaultAnthropicCreator(apiKey string) AnthropicMessager {
	c := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &c.Messages
}

var newAnthropicClient AnthropicClientCreator = defaultAnthropicCreator

// Narrator writes a short plain-language reading of a ranking.
type Narrator struct {
	messages AnthropicMessager
	model    string
}

func NewNarrator(apiKey, model string) (*Narrator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("ANTHROPIC_API_KEY not configured")
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultNarratorModel
	}
	return &Narrator{messages: newAnthropicClient(apiKey), model: model}, nil
}

func (n *Narrator) ModelName() string { return n.model }

func (n *Narrator) Narrate(ctx context.Context, s Summary) (string, error) {
	s.Narrative = ""
	prompt := "Summarise this TOPSIS ranking. Name the top alternative and the criteria that most separate it from the rest.\n\n" +
		BuildMarkdown(s)
	resp, err := n.messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(n.model),
		MaxTokens:   1024,
		System:      []anthropic.TextBlockParam{{Text: narratorSystemPrompt}},
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(prompt))},
		Temperature: anthropic.Float(0),
	})
	if err != nil {
		return "", fmt.Errorf("narrate: %w", err)
	}
	var sb strings.Builder
	for _, b := range resp.Content {
		if b.Type == "text" {
			sb.WriteString(b.Text)
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", errors.New("narrate: empty response")
	}
	return text, nil
}
