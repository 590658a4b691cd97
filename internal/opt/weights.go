package opt

// Weights bundles every tunable scorer weight so a project manifest
// can override them under one [analysis] table.
type Weights struct {
	ZeroPage ZeroPageWeights `toml:"zero_page"`
	Inline   InlineWeights   `toml:"inline"`
}

// DefaultWeights returns the stock tuning for all scorers.
func DefaultWeights() Weights {
	return Weights{
		ZeroPage: DefaultZeroPageWeights(),
		Inline:   DefaultInlineWeights(),
	}
}
