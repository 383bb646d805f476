package tools

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// decodeArgs decodes model-supplied arguments into out, a pointer to a
// struct tagged with `mapstructure`. Loose typing is accepted ("true" for a
// bool, 3 for "3") because models are not always strict about it. Every
// name in required must be present and non-empty.
func decodeArgs(args map[string]any, out any, required ...string) error {
	for _, name := range required {
		v, ok := args[name]
		if !ok || v == nil {
			return fmt.Errorf("missing required argument %q", name)
		}
		if s, isStr := v.(string); isStr && s == "" {
			return fmt.Errorf("argument %q must not be empty", name)
		}
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(args); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// errorResult formats a problem the model should see and react to.
func errorResult(format string, a ...any) string {
	return "Error: " + fmt.Sprintf(format, a...)
}
