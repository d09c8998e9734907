package rule

import (
	"fmt"

	"github.com/spf13/cast"
)

// StringSliceOption extracts a string slice option. Lists decoded from YAML
// or TOML and whitespace separated strings from the environment are coerced.
func StringSliceOption(opts map[string]any, key string, defaultVal []string) ([]string, error) {
	if opts == nil {
		return defaultVal, nil
	}
	v, ok := opts[key]
	if !ok || v == nil {
		return defaultVal, nil
	}
	out, err := cast.ToStringSliceE(v)
	if err != nil {
		return nil, fmt.Errorf("option %q: %w", key, err)
	}
	return out, nil
}

// BoolOption extracts a bool option, accepting "true"/"false" strings.
func BoolOption(opts map[string]any, key string, defaultVal bool) (bool, error) {
	if opts == nil {
		return defaultVal, nil
	}
	v, ok := opts[key]
	if !ok || v == nil {
		return defaultVal, nil
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return false, fmt.Errorf("option %q: %w", key, err)
	}
	return b, nil
}
