package ai

import "context"

// Operation is one of the canned text transforms.
type Operation string

const (
	OpSummarize  Operation = "summarize"
	OpGrammar    Operation = "grammar"
	OpParaphrase Operation = "paraphrase"
)

// One fixed instruction per operation. Each asks the backend to return only
// the transformed text, no preamble.
var instructions = map[Operation]string{
	OpSummarize:  "Summarize the following text concisely while maintaining key points. Return only the summary.",
	OpGrammar:    "Correct any grammar errors in the following text. Return only the corrected text.",
	OpParaphrase: "Rewrite the following text in a different way while maintaining the same meaning. Return only the paraphrased text.",
}

// Instruction returns the prompt template for op, or false for an operation
// outside the enumeration.
func (op Operation) Instruction() (string, bool) {
	instr, ok := instructions[op]
	return instr, ok
}

// ParseOperation maps a wire value to an Operation.
func ParseOperation(s string) (Operation, bool) {
	op := Operation(s)
	_, ok := instructions[op]
	return op, ok
}

// Provider translates a (text, operation) pair into a single call to an
// external generative-text backend and returns the extracted string result.
// Implementations make one attempt and fail fast with a *ProviderError.
type Provider interface {
	Run(ctx context.Context, op Operation, text string) (string, error)
}

// Chatter issues a single free-form prompt under a persona system
// instruction to one backend.
type Chatter interface {
	Chat(ctx context.Context, persona, message string) (string, error)
}
