// Package router turns the latest user message into a Result: it asks the
// model to pick an action, runs the action (with an optional hidden
// disambiguation round) and packages the outcome for rendering.
package router

import (
	"context"
	"fmt"
	"maps"
	"strings"

	"github.com/MattTPin/movie-reccomendation-agent/internal/action"
	"github.com/MattTPin/movie-reccomendation-agent/internal/gateway"
	"github.com/MattTPin/movie-reccomendation-agent/internal/llmjson"
	"github.com/MattTPin/movie-reccomendation-agent/pkg/models"
	"go.uber.org/zap"
)

// Messages used when a backend fails mid-turn.
const (
	ModelUnavailablePrompt   = "Sorry, I can't reach the language model right now. Please try again in a moment."
	ServiceUnavailablePrompt = "Sorry, I couldn't reach the movie service just now. Please try again in a moment."
)

// Model is the part of the gateway the router needs.
type Model interface {
	Invoke(ctx context.Context, req gateway.Request) (string, error)
}

// Router dispatches user turns to catalog actions.
type Router struct {
	catalog *action.Catalog
	model   Model
	logger  *zap.Logger
}

// New creates a Router.
func New(catalog *action.Catalog, model Model, logger *zap.Logger) *Router {
	return &Router{catalog: catalog, model: model, logger: logger}
}

// Route handles the newest user turn of history. It never returns an
// error: every failure ends in a fallback or error Result. history is not
// modified.
func (r *Router) Route(ctx context.Context, history []models.Turn) Result {
	prompt, prior := splitLast(history)

	reply, err := r.model.Invoke(ctx, gateway.Request{
		Prompt:  prompt,
		System:  r.catalog.RouterPrompt(),
		History: prior,
		Purpose: gateway.PurposeClassify,
	})
	if err != nil {
		r.logger.Warn("classification failed", zap.Error(err))
		return r.done("", "model_error", failure(ModelUnavailablePrompt))
	}

	decision := llmjson.Decode(reply)
	if !decision.OK || decision.Action == "" {
		r.logger.Debug("model answered without an action")
		return r.done("", string(KindFallback), fallback(reply))
	}

	spec, ok := r.catalog.Lookup(decision.Action)
	if !ok {
		r.logger.Warn("model picked an unknown action", zap.String("action", decision.Action))
		return r.done("", "unknown_action",
			fallback(fmt.Sprintf("Unknown action '%s'. Got: %s", decision.Action, reply)))
	}

	r.logger.Info("action selected",
		zap.String("action", string(spec.ID)),
		zap.Int("args", len(decision.Args)),
	)
	return r.done(spec.ID, "", r.dispatch(ctx, spec, decision.Args))
}

// dispatch runs the follow-up and final stages of spec.
func (r *Router) dispatch(ctx context.Context, spec action.Spec, args action.Args) Result {
	if spec.FollowUp == nil {
		return r.runFinal(ctx, spec, args)
	}

	out, err := spec.FollowUp(ctx, args)
	if err != nil {
		r.logger.Warn("follow-up failed", zap.String("action", string(spec.ID)), zap.Error(err))
		return failure(ServiceUnavailablePrompt)
	}

	switch out.Status {
	case action.StatusError:
		return failure(out.Prompt)
	case action.StatusSuccess:
		return r.finalize(spec, out)
	case action.StatusSecondary:
		filled, err := r.disambiguate(ctx, spec, out)
		if err != nil {
			r.logger.Warn("disambiguation failed", zap.String("action", string(spec.ID)), zap.Error(err))
			return failure(ModelUnavailablePrompt)
		}
		merged := maps.Clone(args)
		if merged == nil {
			merged = action.Args{}
		}
		maps.Copy(merged, filled)
		return r.runFinal(ctx, spec, merged)
	}
	return failure(unknownStatus(out.Status))
}

// runFinal calls the final stage, which may only succeed or fail.
func (r *Router) runFinal(ctx context.Context, spec action.Spec, args action.Args) Result {
	out, err := spec.Final(ctx, args)
	if err != nil {
		r.logger.Warn("action failed", zap.String("action", string(spec.ID)), zap.Error(err))
		return failure(ServiceUnavailablePrompt)
	}

	switch out.Status {
	case action.StatusSuccess:
		return r.finalize(spec, out)
	case action.StatusError:
		return failure(out.Prompt)
	}
	return failure(unknownStatus(out.Status))
}

// disambiguate asks the model, without history, to fill the follow-up
// args from the ambiguous record. A reply that is not JSON yields a null
// for every follow-up arg.
func (r *Router) disambiguate(ctx context.Context, spec action.Spec, out action.Outcome) (action.Args, error) {
	keys := spec.FollowUpKeys()
	if len(keys) == 0 {
		return action.Args{}, nil
	}

	record, err := models.CompactJSON(out.Record)
	if err != nil {
		return nil, err
	}

	system := strings.TrimSpace(out.Prompt) + "\n\n" + fmt.Sprintf(
		"Return **only** a JSON object with keys:\n"+
			"- \"action\" (str): %s\n"+
			"- \"args\" (object): arguments for the action (empty if none)\n"+
			"Fill (or replace) these args as you see fit: %s.",
		spec.ID, strings.Join(keys, ", "))

	reply, err := r.model.Invoke(ctx, gateway.Request{
		Prompt:  record,
		System:  system,
		Silent:  true,
		Purpose: gateway.PurposeDisambiguate,
	})
	if err != nil {
		return nil, err
	}

	decision := llmjson.Decode(reply)
	if !decision.OK {
		r.logger.Warn("disambiguation reply is not JSON; clearing follow-up args",
			zap.String("action", string(spec.ID)))
		nulls := make(action.Args, len(keys))
		for _, k := range keys {
			nulls[k] = nil
		}
		return nulls, nil
	}
	return decision.Args, nil
}

// finalize packages a success outcome, appending the action's arg notes.
func (r *Router) finalize(spec action.Spec, out action.Outcome) Result {
	record, err := models.CompactJSON(out.Record)
	if err != nil {
		r.logger.Error("serialize action record", zap.String("action", string(spec.ID)), zap.Error(err))
		return failure(ServiceUnavailablePrompt)
	}

	prompt := out.Prompt
	if spec.ImmediateArgNotes != "" {
		prompt += "\narg notes: " + spec.ImmediateArgNotes
	}
	if spec.FinalArgNotes != "" {
		prompt += "\narg notes: " + spec.FinalArgNotes
	}

	return Result{
		Kind:         KindSuccess,
		Action:       spec.ID,
		ActionJSON:   record,
		ActionPrompt: prompt,
	}
}

// done records the dispatch metric. An empty outcome label is taken from
// the result kind.
func (r *Router) done(id action.ID, outcome string, res Result) Result {
	if outcome == "" {
		outcome = string(res.Kind)
	}
	name := string(id)
	if name == "" {
		name = "none"
	}
	dispatchTotal.WithLabelValues(name, outcome).Inc()
	return res
}

func unknownStatus(s action.Status) string {
	return fmt.Sprintf("Unknown status '%s' from follow_up_func.", s)
}

// splitLast returns the content of the final turn when it is a user turn,
// and the history before it.
func splitLast(history []models.Turn) (string, []models.Turn) {
	if n := len(history); n > 0 && history[n-1].Role == models.RoleUser {
		return history[n-1].Content, history[:n-1]
	}
	return "", history
}
