package session

const defaultWindowSize = 20

// DefaultOpeningMessage is the synthetic candidate message that starts an
// interview when the profile does not supply one.
const DefaultOpeningMessage = "Здравствуйте, я готов к интервью."

// Config holds session initialization parameters.
type Config struct {
	// WindowSize caps the raw message buffer; 0 disables windowing.
	WindowSize int `json:"window_size,omitempty" mapstructure:"window_size" yaml:"window_size,omitempty"`

	// OpeningMessage seeds the first run of every session.
	OpeningMessage string `json:"opening_message,omitempty" mapstructure:"opening_message" yaml:"opening_message,omitempty"`
}

// DefaultConfig returns the default session configuration.
func DefaultConfig() Config {
	return Config{
		WindowSize:     defaultWindowSize,
		OpeningMessage: DefaultOpeningMessage,
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.WindowSize > 0 {
		c.WindowSize = source.WindowSize
	}
	if source.OpeningMessage != "" {
		c.OpeningMessage = source.OpeningMessage
	}
}
