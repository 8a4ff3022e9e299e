package hints

// MaxHints caps the number of hints kept from a single response.
const MaxHints = 6

// Config holds hint generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns sensible defaults for hint generation.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   768,
		Temperature: 0.4,
	}
}
