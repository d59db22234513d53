package smoothing

// Config is one data category's smoothing setting.
type Config struct {
	Enabled bool
	Type    WindowType
	Length  int
}

// DefaultConfig matches the original defaults: a flat window of length 4,
// disabled until the user opts in.
func DefaultConfig() Config {
	return Config{Enabled: false, Type: Flat, Length: 4}
}

// Normalize validates the config and returns it with the effective (even)
// length. The Enabled flag is carried through unchanged.
func (c Config) Normalize() (Config, error) {
	wt, err := ParseWindowType(string(c.Type))
	if err != nil {
		return Config{}, err
	}
	length, err := NormalizeLength(c.Length)
	if err != nil {
		return Config{}, err
	}
	if _, err := Kernel(length, wt); err != nil {
		return Config{}, err
	}
	return Config{Enabled: c.Enabled, Type: wt, Length: length}, nil
}

// Apply smooths seq when the config is enabled and returns seq untouched
// otherwise.
func (c Config) Apply(seq []float64) ([]float64, error) {
	if !c.Enabled {
		return seq, nil
	}
	return Smooth(seq, c.Length, c.Type)
}

// sameKernel reports whether two configs produce identical output.
func (c Config) sameKernel(o Config) bool {
	return c.Type == o.Type && c.Length == o.Length
}

// Validate reports whether the config describes a usable kernel.
func (c Config) Validate() error {
	_, err := c.Normalize()
	return err
}
