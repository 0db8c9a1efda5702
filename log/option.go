package log

// Option applies a configuration option to config.
// Options are built with [update] so each one runs under the config lock.
type Option func(config) config

// apply applies multiple options to a config in order.
func apply(cfg config, opts ...Option) config {
	for _, opt := range opts {
		if opt != nil {
			cfg = opt(cfg)
		}
	}

	return cfg
}
