package ai

import (
	"context"
	"strings"
)

// Facade validates input, selects a provider and dispatches the requested
// operation. It holds no per-call state; provider selection has no memory.
type Facade struct {
	providers   map[string]Provider
	defaultName string
}

// NewFacade builds a facade over the given providers. defaultName must be a
// key of providers; it is used whenever a caller supplies no hint or a hint
// that names no configured provider.
func NewFacade(defaultName string, providers map[string]Provider) *Facade {
	return &Facade{providers: providers, defaultName: defaultName}
}

// Process runs op over text on the provider named by hint, or the default
// provider when the hint is empty or unknown. Blank text fails before any
// provider is invoked.
func (f *Facade) Process(ctx context.Context, hint string, op Operation, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrBlankText
	}
	if _, ok := op.Instruction(); !ok {
		return "", ErrUnknownOperation
	}
	return f.pick(hint).Run(ctx, op, text)
}

func (f *Facade) pick(hint string) Provider {
	if p, ok := f.providers[hint]; ok {
		return p
	}
	return f.providers[f.defaultName]
}

// ChatSession is a stateless single-turn pass-through to one designated
// backend, carrying a fixed assistant persona instead of an operation
// template.
type ChatSession struct {
	chatter Chatter
	persona string
}

const defaultPersona = "You are a helpful assistant inside a note-taking app. Answer the user's question concisely."

func NewChatSession(c Chatter, persona string) *ChatSession {
	if persona == "" {
		persona = defaultPersona
	}
	return &ChatSession{chatter: c, persona: persona}
}

func (s *ChatSession) Send(ctx context.Context, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", ErrBlankMessage
	}
	return s.chatter.Chat(ctx, s.persona, message)
}
