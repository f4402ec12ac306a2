package summarize

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"go.uber.org/zap"

	"speedread/internal/feed"
)

const systemPrompt = "You are an expert at creating concise, factual news summaries that avoid clickbait while still being compelling."

const userPromptTemplate = `You are creating a 3-bullet summary for a local news story.

STORY TITLE: {{.Title}}
STORY CONTENT: {{.Content}}

Create exactly 3 bullets following these rules:

BULLET 1: What happened - concrete facts, include specific numbers/names if available
BULLET 2: Key detail or impact - why this matters to locals
BULLET 3: Story-specific curiosity gap - identify something genuinely intriguing about THIS specific story that would make someone want to read more. DO NOT use generic phrases like "You won't believe", "The surprising reason", "One detail changes everything", etc. Instead, hint at specific unanswered questions, contradictions, backstories, or unexpected connections that are unique to this particular story.

Examples of GOOD bullet 3s (story-specific):
- "The restaurant's sudden closure traces back to a decades-old family feud"
- "Three city councilors changed their votes in the final 30 seconds"
- "The building's architect designed it to intentionally violate fire codes"

Examples of BAD bullet 3s (generic templates):
- "You won't believe what happened next"
- "The surprising reason will shock you"
- "One detail changes everything"

Be specific to THIS story. Format as three separate lines, each starting with a bullet point.`

var promptTmpl = template.Must(template.New("summary").Parse(userPromptTemplate))

// Client summarizes stories through an OpenAI-compatible chat completion API.
type Client struct {
	client  openai.Client
	model   string
	timeout time.Duration
	logger  *zap.SugaredLogger
}

// NewClient builds a summarization client. baseURL may be empty for the
// default OpenAI endpoint; timeout bounds each per-story call.
func NewClient(apiKey, baseURL, model string, timeout time.Duration, logger *zap.SugaredLogger) *Client {
	opts := []option.RequestOption{}
	if strings.TrimSpace(apiKey) != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	if strings.TrimSpace(baseURL) != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &Client{
		client:  openai.NewClient(opts...),
		model:   model,
		timeout: timeout,
		logger:  logger,
	}
}

// Summarize produces a validated 3-bullet Summary for one story. Any API
// failure, timeout, or contract violation is returned as an error so the
// pipeline can skip the story.
func (c *Client) Summarize(ctx context.Context, story feed.Story, content string) (Summary, error) {
	var buf bytes.Buffer
	if err := promptTmpl.Execute(&buf, struct{ Title, Content string }{Title: story.Title, Content: content}); err != nil {
		return Summary{}, err
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	completion, err := c.client.Chat.Completions.New(callCtx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(buf.String()),
		},
		Model:       c.model,
		MaxTokens:   openai.Int(300),
		Temperature: openai.Float(0.7),
	})
	if err != nil {
		return Summary{}, fmt.Errorf("AI completion for %s: %w", story.ID, err)
	}
	if len(completion.Choices) == 0 {
		return Summary{}, fmt.Errorf("AI returned no choices for %s", story.ID)
	}
	text := strings.TrimSpace(completion.Choices[0].Message.Content)
	if text == "" {
		return Summary{}, fmt.Errorf("AI returned empty content for %s", story.ID)
	}

	bullets := parseBullets(text)
	if len(bullets) < 3 {
		return Summary{}, &ContractError{StoryID: story.ID, Reason: fmt.Sprintf("expected 3 bullets, parsed %d", len(bullets))}
	}
	s := Summary{
		StoryID:      story.ID,
		WhatHappened: bullets[0],
		WhyItMatters: bullets[1],
		IntrigueHook: bullets[2],
		HookType:     ClassifyHook(story.Title, content),
	}
	if err := Validate(story, s); err != nil {
		return Summary{}, err
	}
	return s, nil
}

var bulletPrefixes = []string{"•", "-", "*", "1.", "2.", "3."}

// parseBullets pulls bullet lines out of the model response, stripping the
// leading bullet markers.
func parseBullets(text string) []string {
	var bullets []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		for _, prefix := range bulletPrefixes {
			if strings.HasPrefix(line, prefix) {
				bullets = append(bullets, strings.TrimSpace(strings.TrimPrefix(line, prefix)))
				break
			}
		}
	}
	if len(bullets) > 3 {
		bullets = bullets[:3]
	}
	return bullets
}
