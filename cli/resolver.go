package cli

import (
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// load is a [kong.ConfigurationLoader] that parses YAML config files.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(load, "/path/to/config.yaml")
//
// The YAML document is converted as follows:
//   - Top-level keys name flags (e.g., "log-level" or "log_level")
//   - Nested mappings are flattened by joining keys with hyphens, so
//     "log: {level: debug}" sets --log-level
//   - Numbers are converted to strings for Kong to parse
//   - Sequences are kept as lists
//
// Example config file:
//
//	log-level: debug
//	log:
//	  format: json
//	  pretty: true
//	frame: ~/snapshots/cart.yaml
//
// Command-line flags override config file values. An empty or unparsable
// file yields an empty configuration.
func load(r io.Reader) (kong.Resolver, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return config{}, nil
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil || doc == nil {
		return config{}, nil
	}

	out := make(config, len(doc))
	flatten(out, "", doc)

	return out, nil
}

// config implements [kong.Resolver] for YAML configs.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	// Kong flags use hyphens (e.g., "log-level") but config keys
	// may use underscores. Try both forms.
	name := flag.Name

	if value, ok := r[name]; ok {
		return value, nil
	}

	if value, ok := r[strings.ReplaceAll(name, "-", "_")]; ok {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}

// flatten copies m into out, joining nested keys onto prefix with hyphens.
func flatten(out config, prefix string, m map[string]any) {
	for key, val := range m {
		if prefix != "" {
			key = prefix + "-" + key
		}

		if sub, ok := val.(map[string]any); ok {
			flatten(out, key, sub)

			continue
		}

		out[key] = scalar(val)
	}
}

// scalar converts YAML numbers to strings, which Kong requires for parsing.
func scalar(v any) any {
	switch v := v.(type) {
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = scalar(e)
		}

		return out
	}

	return v
}
