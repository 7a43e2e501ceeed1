// Package bot is the boundary to the external text-generation collaborator.
// The engine never sees a delegate failure: Reply converts errors and empty
// responses into fixed fallback strings.
package bot

import "context"

const (
	// DefaultPersona seeds the system instruction when the caller doesn't
	// supply a context string.
	DefaultPersona = "You are PromptBot, a helpful AI assistant for PromptClub."

	personaSuffix = " Keep answers concise (under 300 chars usually) and fun. Use emojis."

	fallbackEmpty = "🤖 I'm speechless."
	fallbackError = "🤖 I encountered a glitch in the matrix."
)

// Delegate generates free-form bot replies. Implementations may fail; the
// pipeline only consumes delegates through Reply.
type Delegate interface {
	Generate(ctx context.Context, prompt string, context string) (string, error)
}

// Reply asks the delegate for a response and fails closed. persona may be
// empty, in which case the default PromptBot persona is used.
func Reply(ctx context.Context, delegate Delegate, prompt string, persona string) string {
	if persona == "" {
		persona = DefaultPersona
	}

	text, err := delegate.Generate(ctx, prompt, persona+personaSuffix)
	if err != nil {
		return fallbackError
	}
	if text == "" {
		return fallbackEmpty
	}
	return text
}
