package ai

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const defaultOpenAIModel = "gpt-4o"

// envelopeInstruction is appended to every operation instruction so the
// model wraps its answer in a single-field JSON object.
const envelopeInstruction = ` Respond with a JSON object of the form {"result": "<the text>"}.`

// OpenAI wraps the OpenAI chat-completions API through langchaingo. Its
// response contract is structured: replies arrive as a JSON envelope with a
// single "result" field. Envelope parsing is lenient — when the reply is not
// the requested envelope, the raw reply is returned as-is rather than
// failing the call. The policy holds across all operations.
type OpenAI struct {
	apiKey string
	model  string

	once    sync.Once
	llm     *openai.LLM
	initErr error
}

func NewOpenAI(apiKey, model string) *OpenAI {
	if model == "" {
		model = defaultOpenAIModel
	}
	return &OpenAI{apiKey: apiKey, model: model}
}

func (o *OpenAI) Name() string { return "openai" }

func (o *OpenAI) ensureClient() error {
	if o.apiKey == "" {
		return &ProviderError{Provider: o.Name(), Kind: KindUnconfigured, Err: errors.New("OPENAI_API_KEY is not set")}
	}
	o.once.Do(func() {
		o.llm, o.initErr = openai.New(openai.WithToken(o.apiKey), openai.WithModel(o.model))
	})
	if o.initErr != nil {
		return &ProviderError{Provider: o.Name(), Kind: KindUnreachable, Err: errors.Wrap(o.initErr, "creating client")}
	}
	return nil
}

func (o *OpenAI) Run(ctx context.Context, op Operation, text string) (string, error) {
	instr, ok := op.Instruction()
	if !ok {
		return "", ErrUnknownOperation
	}
	if err := o.ensureClient(); err != nil {
		return "", err
	}

	resp, err := o.llm.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, instr+envelopeInstruction),
		llms.TextParts(llms.ChatMessageTypeHuman, text),
	}, llms.WithJSONMode())
	if err != nil {
		return "", &ProviderError{Provider: o.Name(), Kind: KindUnreachable, Err: err}
	}

	raw, err := o.firstChoice(resp)
	if err != nil {
		return "", err
	}
	return unwrapEnvelope(raw), nil
}

func (o *OpenAI) Chat(ctx context.Context, persona, message string) (string, error) {
	if err := o.ensureClient(); err != nil {
		return "", err
	}

	resp, err := o.llm.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, persona),
		llms.TextParts(llms.ChatMessageTypeHuman, message),
	})
	if err != nil {
		return "", &ProviderError{Provider: o.Name(), Kind: KindUnreachable, Err: err}
	}
	return o.firstChoice(resp)
}

func (o *OpenAI) firstChoice(resp *llms.ContentResponse) (string, error) {
	if resp == nil || len(resp.Choices) == 0 {
		return "", &ProviderError{Provider: o.Name(), Kind: KindEmptyResponse, Err: errors.New("no choices in response")}
	}
	raw := strings.TrimSpace(resp.Choices[0].Content)
	if raw == "" {
		return "", &ProviderError{Provider: o.Name(), Kind: KindEmptyResponse, Err: errors.New("empty message content")}
	}
	return raw, nil
}

// unwrapEnvelope extracts the result field from the JSON envelope, falling
// back to the raw reply when parsing fails or the field is blank.
func unwrapEnvelope(raw string) string {
	var env struct {
		Result string `json:"result"`
	}
	if err := json.Unmarshal([]byte(raw), &env); err != nil || env.Result == "" {
		return raw
	}
	return env.Result
}
