package router

import "github.com/MattTPin/movie-reccomendation-agent/internal/action"

// Kind tags a Result.
type Kind string

const (
	// KindFallback carries free text from the model, shown as-is.
	KindFallback Kind = "fallback"
	// KindError carries a message for the user. The renderer is skipped.
	KindError Kind = "error"
	// KindSuccess carries an action record to be rendered by the model.
	KindSuccess Kind = "success"
)

// Result is the single value Route returns for a turn.
type Result struct {
	Kind Kind `json:"kind"`

	// Fallback text, set for KindFallback.
	Fallback string `json:"fallback,omitempty"`
	// Prompt is the user-facing message of KindError.
	Prompt string `json:"prompt,omitempty"`

	// Set for KindSuccess.
	Action       action.ID `json:"action,omitempty"`
	ActionJSON   string    `json:"action_json,omitempty"`
	ActionPrompt string    `json:"action_prompt,omitempty"`
}

func fallback(text string) Result {
	return Result{Kind: KindFallback, Fallback: text}
}

func failure(prompt string) Result {
	return Result{Kind: KindError, Prompt: prompt}
}
