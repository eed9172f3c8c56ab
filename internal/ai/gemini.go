package ai

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

// Gemini wraps the Gemini API. Its response contract is plain text: the
// instruction asks the model to return only the transformed text and the
// first candidate part is used verbatim, no post-processing.
type Gemini struct {
	apiKey string
	model  string

	once    sync.Once
	client  *genai.Client
	initErr error
}

func NewGemini(apiKey, model string) *Gemini {
	if model == "" {
		model = defaultGeminiModel
	}
	return &Gemini{apiKey: apiKey, model: model}
}

func (g *Gemini) Name() string { return "gemini" }

// ensureClient builds the API client on first use so that a missing key is
// a per-call configuration error rather than a startup crash.
func (g *Gemini) ensureClient(ctx context.Context) error {
	if g.apiKey == "" {
		return &ProviderError{Provider: g.Name(), Kind: KindUnconfigured, Err: errors.New("GEMINI_API_KEY is not set")}
	}
	g.once.Do(func() {
		g.client, g.initErr = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  g.apiKey,
			Backend: genai.BackendGeminiAPI,
		})
	})
	if g.initErr != nil {
		return &ProviderError{Provider: g.Name(), Kind: KindUnreachable, Err: errors.Wrap(g.initErr, "creating client")}
	}
	return nil
}

func (g *Gemini) Run(ctx context.Context, op Operation, text string) (string, error) {
	instr, ok := op.Instruction()
	if !ok {
		return "", ErrUnknownOperation
	}
	if err := g.ensureClient(ctx); err != nil {
		return "", err
	}

	prompt := instr + "\n\n" + text
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", &ProviderError{Provider: g.Name(), Kind: KindUnreachable, Err: err}
	}
	return g.extract(resp)
}

func (g *Gemini) Chat(ctx context.Context, persona, message string) (string, error) {
	if err := g.ensureClient(ctx); err != nil {
		return "", err
	}

	chat, err := g.client.Chats.Create(ctx, g.model, &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{
				{Text: persona},
			},
		},
	}, nil)
	if err != nil {
		return "", &ProviderError{Provider: g.Name(), Kind: KindUnreachable, Err: errors.Wrap(err, "creating chat session")}
	}

	resp, err := chat.SendMessage(ctx, genai.Part{Text: message})
	if err != nil {
		return "", &ProviderError{Provider: g.Name(), Kind: KindUnreachable, Err: err}
	}
	return g.extract(resp)
}

func (g *Gemini) extract(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", &ProviderError{Provider: g.Name(), Kind: KindEmptyResponse, Err: errors.New("no candidates in response")}
	}
	part := resp.Candidates[0].Content.Parts[0]
	if part.Text == "" {
		// A candidate exists but its first part is not text.
		return "", &ProviderError{Provider: g.Name(), Kind: KindMalformedResponse, Err: errors.New("non-text part in reply")}
	}
	return part.Text, nil
}
