// Package action holds the closed set of things the assistant can do for
// a user. Each action is described by a Spec in the Catalog; the router
// picks one and drives its functions.
package action

import (
	"context"
	"slices"
)

// ID names an action. The set is closed: ParseID rejects anything else.
type ID string

const (
	GetTrending              ID = "GetTrending"
	GetDetails               ID = "GetDetails"
	GetSimilar               ID = "GetSimilar"
	GetUserList              ID = "GetUserList"
	AddOrRemoveFromWatchList ID = "AddOrRemoveFromWatchList"
)

// ids fixes the order actions are listed in the router prompt.
var ids = []ID{GetTrending, GetDetails, GetSimilar, GetUserList, AddOrRemoveFromWatchList}

// ParseID maps a model-supplied action name to an ID.
func ParseID(name string) (ID, bool) {
	id := ID(name)
	return id, slices.Contains(ids, id)
}

// Status tags an Outcome.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
	// StatusSecondary asks the router for a hidden disambiguation query
	// before the final function runs. Only follow-up functions return it.
	StatusSecondary Status = "secondary_query_required"
)

// Outcome is what an action function reports.
//
// Success and secondary outcomes carry a Record (the domain data the model
// sees as JSON) and a Prompt (instructions for rendering or
// disambiguating it). Error outcomes carry only a Prompt, shown to the
// user as-is.
type Outcome struct {
	Status Status
	Record any
	Prompt string
}

// Success builds a success outcome.
func Success(record any, prompt string) Outcome {
	return Outcome{Status: StatusSuccess, Record: record, Prompt: prompt}
}

// Failure builds an error outcome.
func Failure(prompt string) Outcome {
	return Outcome{Status: StatusError, Prompt: prompt}
}

// Secondary builds a secondary_query_required outcome.
func Secondary(record any, prompt string) Outcome {
	return Outcome{Status: StatusSecondary, Record: record, Prompt: prompt}
}

// Args are the loosely typed arguments chosen by the model.
type Args map[string]any

// Func runs an action. A returned error means the backing service failed;
// domain failures are error Outcomes.
type Func func(ctx context.Context, args Args) (Outcome, error)

// Arg is one argument name with the hint shown to the model.
type Arg struct {
	Name string
	Hint string
}

// Spec describes one action.
type Spec struct {
	ID            ID
	Description   string
	ImmediateArgs []Arg
	// FollowUpArgs are the keys a disambiguation query may fill. For
	// actions without a FollowUp they are optional filters the router
	// may set directly.
	FollowUpArgs []Arg
	// FollowUp runs first when set and may ask for disambiguation.
	FollowUp Func
	Final    Func

	ImmediateArgNotes string
	FinalArgNotes     string
}

// FollowUpKeys returns the names of the follow-up args in order.
func (s Spec) FollowUpKeys() []string {
	keys := make([]string, len(s.FollowUpArgs))
	for i, a := range s.FollowUpArgs {
		keys[i] = a.Name
	}
	return keys
}

func (s Spec) clone() Spec {
	s.ImmediateArgs = slices.Clone(s.ImmediateArgs)
	s.FollowUpArgs = slices.Clone(s.FollowUpArgs)
	return s
}
