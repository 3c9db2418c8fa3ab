package index

type options struct {
	capacity int
	seed     []string
}

// Option applies a configuration option to NewOrdered.
type Option func(*options)

// WithCapacity preallocates room for n names.
func WithCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.capacity = n
		}
	}
}

// WithNames records names, in order, at construction time. Repeated names
// keep their first position.
func WithNames(names ...string) Option {
	return func(o *options) {
		o.seed = append(o.seed, names...)
		if len(o.seed) > o.capacity {
			o.capacity = len(o.seed)
		}
	}
}
