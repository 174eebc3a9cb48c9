package integration

import "fmt"

// CredentialType discriminates Credentials variants. Values are
// persisted; keep them stable.
type CredentialType string

const (
	CredAPIKey CredentialType = "api_key"
	CredOAuth2 CredentialType = "oauth2"
	CredBasic  CredentialType = "basic"
	CredCustom CredentialType = "custom"
)

// APIKeyCredentials authenticate with a single key, sent in the named
// header (default Authorization).
type APIKeyCredentials struct {
	Key    string `json:"key"`
	Header string `json:"header,omitempty"`
}

// OAuth2Credentials hold an OAuth2 client plus its current tokens.
type OAuth2Credentials struct {
	ClientID     string   `json:"clientId"`
	ClientSecret string   `json:"clientSecret"`
	TokenURL     string   `json:"tokenUrl"`
	AccessToken  string   `json:"accessToken,omitempty"`
	RefreshToken string   `json:"refreshToken,omitempty"`
	Scopes       []string `json:"scopes,omitempty"`
}

// BasicCredentials are username/password pairs.
type BasicCredentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CustomCredentials carry adapter-specific fields the platform does not
// interpret.
type CustomCredentials struct {
	Fields map[string]string `json:"fields"`
}

// Credentials is a tagged union over authentication variants. Exactly
// the variant named by Type must be set.
type Credentials struct {
	Type   CredentialType     `json:"type"`
	APIKey *APIKeyCredentials `json:"apiKey,omitempty"`
	OAuth2 *OAuth2Credentials `json:"oauth2,omitempty"`
	Basic  *BasicCredentials  `json:"basic,omitempty"`
	Custom *CustomCredentials `json:"custom,omitempty"`
}

func (c Credentials) variantCount() int {
	n := 0
	if c.APIKey != nil {
		n++
	}
	if c.OAuth2 != nil {
		n++
	}
	if c.Basic != nil {
		n++
	}
	if c.Custom != nil {
		n++
	}
	return n
}

// Validate returns every violation found in the credentials.
func (c Credentials) Validate() []string {
	var errs []string

	switch c.Type {
	case CredAPIKey:
		if c.APIKey == nil {
			errs = append(errs, "api_key credentials require the apiKey variant")
		} else if c.APIKey.Key == "" {
			errs = append(errs, "api key is required")
		}
	case CredOAuth2:
		if c.OAuth2 == nil {
			errs = append(errs, "oauth2 credentials require the oauth2 variant")
		} else {
			if c.OAuth2.ClientID == "" {
				errs = append(errs, "oauth2 clientId is required")
			}
			if c.OAuth2.ClientSecret == "" {
				errs = append(errs, "oauth2 clientSecret is required")
			}
			if c.OAuth2.TokenURL == "" {
				errs = append(errs, "oauth2 tokenUrl is required")
			}
		}
	case CredBasic:
		if c.Basic == nil {
			errs = append(errs, "basic credentials require the basic variant")
		} else if c.Basic.Username == "" {
			errs = append(errs, "basic username is required")
		}
	case CredCustom:
		if c.Custom == nil || len(c.Custom.Fields) == 0 {
			errs = append(errs, "custom credentials require at least one field")
		}
	case "":
		errs = append(errs, "credential type is required")
	default:
		errs = append(errs, fmt.Sprintf("unknown credential type %q", c.Type))
	}

	if c.variantCount() > 1 {
		errs = append(errs, "credentials must carry exactly one variant")
	}
	return errs
}

// Redact returns a copy safe for logging and API responses: secrets are
// masked, structure and non-secret fields preserved.
func (c Credentials) Redact() Credentials {
	out := Credentials{Type: c.Type}
	switch {
	case c.APIKey != nil:
		out.APIKey = &APIKeyCredentials{Key: mask(c.APIKey.Key), Header: c.APIKey.Header}
	case c.OAuth2 != nil:
		o := *c.OAuth2
		o.ClientSecret = mask(o.ClientSecret)
		o.AccessToken = mask(o.AccessToken)
		o.RefreshToken = mask(o.RefreshToken)
		out.OAuth2 = &o
	case c.Basic != nil:
		out.Basic = &BasicCredentials{Username: c.Basic.Username, Password: mask(c.Basic.Password)}
	case c.Custom != nil:
		fields := make(map[string]string, len(c.Custom.Fields))
		for k, v := range c.Custom.Fields {
			fields[k] = mask(v)
		}
		out.Custom = &CustomCredentials{Fields: fields}
	}
	return out
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return "****"
	}
	return s[:2] + "****" + s[len(s)-2:]
}
