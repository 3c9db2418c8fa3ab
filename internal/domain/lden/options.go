package lden

// DefaultDutyFloor replaces duty percentages <= 0 so that the logarithm of
// the weighted power stays finite.
const DefaultDutyFloor = 1e-20

// Option applies a configuration option to the Combiner.
type Option func(*Combiner)

// WithDutyFloor sets the value substituted for duty percentages <= 0.
// Non-positive floors are ignored.
func WithDutyFloor(floor float64) Option {
	return func(c *Combiner) {
		if floor > 0 {
			c.dutyFloor = floor
		}
	}
}
