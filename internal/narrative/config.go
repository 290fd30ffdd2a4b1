package narrative

// Config holds narrative generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64
	// MaxTips caps the parent tips requested from the model.
	MaxTips int
}

// DefaultConfig returns sensible defaults for narrative generation.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   900,
		Temperature: 0.4,
		MaxTips:     5,
	}
}
