package artifact

// defaultMaxBytes bounds how much of an artifact file is read.
const defaultMaxBytes = 64 << 20

// Option applies a configuration option to Load.
type Option func(*loadOptions)

type loadOptions struct {
	maxBytes int64
}

// WithMaxBytes caps the artifact size read from disk.
func WithMaxBytes(n int64) Option {
	return func(o *loadOptions) {
		if n > 0 {
			o.maxBytes = n
		}
	}
}
