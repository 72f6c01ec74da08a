package types

// ProviderID identifies a content source.
type ProviderID string

const (
	ProviderNewsAPI ProviderID = "newsapi"
	ProviderReddit  ProviderID = "reddit"
	ProviderBluesky ProviderID = "bluesky"
)

// ProviderConfig represents source provider configuration.
type ProviderConfig struct {
	ID   ProviderID `json:"id" yaml:"id"`
	Name string     `json:"name" yaml:"name"`

	// API settings
	APIHost string `json:"api_host" yaml:"api_host"`
	APIKey  string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Reddit app-only OAuth2
	AuthHost     string `json:"auth_host,omitempty" yaml:"auth_host,omitempty"`
	ClientID     string `json:"client_id,omitempty" yaml:"client_id,omitempty"`
	ClientSecret string `json:"client_secret,omitempty" yaml:"client_secret,omitempty"`

	// Bluesky session credentials
	Handle      string `json:"handle,omitempty" yaml:"handle,omitempty"`
	AppPassword string `json:"app_password,omitempty" yaml:"app_password,omitempty"`

	// Optional settings
	UserAgent string `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`
	Timeout   int    `json:"timeout,omitempty" yaml:"timeout,omitempty"` // seconds
}

// Validate validates the provider configuration.
func (c *ProviderConfig) Validate() error {
	if c.ID == "" {
		return ErrInvalidProviderID
	}
	if c.APIHost == "" {
		return ErrInvalidAPIHost
	}

	switch c.ID {
	case ProviderReddit:
		if c.ClientID == "" || c.ClientSecret == "" {
			return ErrMissingCredentials
		}
	case ProviderBluesky:
		if c.Handle == "" || c.AppPassword == "" {
			return ErrMissingCredentials
		}
	default:
		if c.APIKey == "" {
			return ErrMissingAPIKey
		}
	}

	return nil
}
