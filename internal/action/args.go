package action

import (
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"go.uber.org/zap"
)

// decodeArgs fills target from model-supplied args. Decoding is weakly
// typed ("5" fills an int, a lone string fills a []string) and unknown
// keys are ignored. Keys with null values leave the field at its zero
// value.
func decodeArgs(args Args, target any) error {
	clean := make(map[string]any, len(args))
	for k, v := range args {
		if v != nil {
			clean[k] = v
		}
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		TagName:          "json",
		Result:           target,
		DecodeHook:       mapstructure.StringToSliceHookFunc(","),
	})
	if err != nil {
		return fmt.Errorf("build args decoder: %w", err)
	}
	if err := dec.Decode(clean); err != nil {
		return fmt.Errorf("decode args: %w", err)
	}
	return nil
}

// argsFailure reports args that could not be decoded as an error outcome.
func (a *actions) argsFailure(err error) Outcome {
	a.logger.Warn("invalid action args", zap.Error(err))
	return Failure(BadArgsPrompt)
}

// flatten lifts the keys of a nested object arg (the model sometimes
// groups optional filters under one key) to the top level. Top-level keys
// win.
func flatten(args Args, key string) Args {
	nested, ok := args[key].(map[string]any)
	if !ok {
		return args
	}
	out := make(Args, len(args)+len(nested))
	for k, v := range nested {
		out[k] = v
	}
	for k, v := range args {
		if k != key {
			out[k] = v
		}
	}
	return out
}

// clamp returns def for non-positive n and max for n above it.
func clamp(n, def, max int) int {
	switch {
	case n <= 0:
		return def
	case n > max:
		return max
	}
	return n
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
