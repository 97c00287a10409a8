package physics

// Config holds the tuning of a World. Lengths are in world units, the arena
// is centred on the origin.
type Config struct {
	Gravity     float64
	Friction    float64
	Restitution float64

	// LinearDamping and AngularDamping are the fraction of velocity lost per
	// second while in the air.
	LinearDamping  float64
	AngularDamping float64

	// StepRate is the number of fixed steps per second and MaxSubSteps the
	// most steps a single Step call may run to catch up.
	StepRate    float64
	MaxSubSteps int

	// HalfWidth places the walls at +-HalfWidth on X and Z.
	HalfWidth float64
	Floor     float64
	Ceiling   float64
}

// DefaultConfig ...
func DefaultConfig() Config {
	return Config{
		Gravity:     -38,
		Friction:    0.5,
		Restitution: 0.5,

		LinearDamping:  0.01,
		AngularDamping: 0.01,

		StepRate:    120,
		MaxSubSteps: 20,

		HalfWidth: 10,
		Floor:     -5,
		Ceiling:   5,
	}
}

// FixedStep returns the length of one step in seconds.
func (c Config) FixedStep() float64 {
	return 1 / c.StepRate
}
