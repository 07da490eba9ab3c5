package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
)

// Credential is a stored OAuth user credential.
//
// The on-disk format is the "authorized user" JSON record written by Google's
// client libraries ("token", "refresh_token", "client_id", ...). The field
// names of a serialized oauth2.Token ("access_token", "refresh_token",
// "expiry") are accepted as well.
type Credential struct {
	AccessToken  string
	RefreshToken string
	TokenURI     string
	ClientID     string
	ClientSecret string
	Scopes       []string
	Expiry       time.Time

	// Path is the file the credential was loaded from
	Path string
}

type credentialFile struct {
	Token        string   `json:"token"`
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	TokenURI     string   `json:"token_uri"`
	ClientID     string   `json:"client_id"`
	ClientSecret string   `json:"client_secret"`
	Scopes       []string `json:"scopes"`
	Expiry       string   `json:"expiry"`
}

// expiryLayouts are tried in order. Python's google-auth writes a naive UTC
// timestamp without a zone designator.
var expiryLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
}

// LoadCredential reads and validates the credential stored at path.
func LoadCredential(path string) (*Credential, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: no credential path configured", ErrCredentialNotFound)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrCredentialNotFound, path)
		}
		return nil, fmt.Errorf("failed to read credential file %s: %w", path, err)
	}

	cred, err := ParseCredential(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cred.Path = path

	return cred, nil
}

// ParseCredential decodes and validates a credential record.
func ParseCredential(data []byte) (*Credential, error) {
	var raw credentialFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCredentialMalformed, err)
	}

	cred := &Credential{
		AccessToken:  raw.Token,
		RefreshToken: raw.RefreshToken,
		TokenURI:     raw.TokenURI,
		ClientID:     raw.ClientID,
		ClientSecret: raw.ClientSecret,
		Scopes:       raw.Scopes,
	}
	if cred.AccessToken == "" {
		cred.AccessToken = raw.AccessToken
	}

	if raw.Expiry != "" {
		expiry, err := parseExpiry(raw.Expiry)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid expiry %q", ErrCredentialMalformed, raw.Expiry)
		}
		cred.Expiry = expiry
	}

	if err := cred.Validate(time.Now()); err != nil {
		return nil, err
	}

	return cred, nil
}

func parseExpiry(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range expiryLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// Validate checks that the credential can authorize requests at time now.
func (c *Credential) Validate(now time.Time) error {
	if c.AccessToken == "" && !c.CanRefresh() {
		return fmt.Errorf("%w: missing access token", ErrCredentialMalformed)
	}
	if c.Expired(now) && !c.CanRefresh() {
		return fmt.Errorf("%w: access token expired at %s and no refresh token is available",
			ErrCredentialExpired, c.Expiry.Format(time.RFC3339))
	}
	return nil
}

// Expired reports whether the access token is past its expiry at time now.
// A missing access token counts as expired; a missing expiry never does.
func (c *Credential) Expired(now time.Time) bool {
	if c.AccessToken == "" {
		return true
	}
	return !c.Expiry.IsZero() && !now.Before(c.Expiry)
}

// CanRefresh reports whether the credential carries everything needed to
// obtain a new access token.
func (c *Credential) CanRefresh() bool {
	return c.RefreshToken != "" && c.ClientID != "" && c.ClientSecret != ""
}

// HasScope reports whether scope was granted to the credential.
func (c *Credential) HasScope(scope string) bool {
	for _, s := range c.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// HasDriveReadAccess reports whether any granted scope allows reading file
// content from Drive. Credentials without recorded scopes are assumed to
// have access; the API will reject them otherwise.
func (c *Credential) HasDriveReadAccess() bool {
	if len(c.Scopes) == 0 {
		return true
	}
	for _, scope := range DriveContentScopes {
		if c.HasScope(scope) {
			return true
		}
	}
	return false
}

// MissingScopes returns the entries of required that were not granted.
func (c *Credential) MissingScopes(required []string) []string {
	var missing []string
	for _, scope := range required {
		if !c.HasScope(scope) {
			missing = append(missing, scope)
		}
	}
	return missing
}

// Token returns the credential as an oauth2.Token.
func (c *Credential) Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  c.AccessToken,
		TokenType:    "Bearer",
		RefreshToken: c.RefreshToken,
		Expiry:       c.Expiry,
	}
}

// OAuthConfig returns the OAuth2 client configuration embedded in the
// credential. The token endpoint defaults to Google's.
func (c *Credential) OAuthConfig() *oauth2.Config {
	endpoint := googleoauth.Endpoint
	if c.TokenURI != "" {
		endpoint.TokenURL = c.TokenURI
	}
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Endpoint:     endpoint,
		Scopes:       c.Scopes,
	}
}

// TokenSource returns a token source for the credential. If the credential
// cannot be refreshed the stored access token is served as-is.
func (c *Credential) TokenSource(ctx context.Context) oauth2.TokenSource {
	if !c.CanRefresh() {
		return oauth2.StaticTokenSource(c.Token())
	}
	return c.OAuthConfig().TokenSource(ctx, c.Token())
}

// String implements fmt.Stringer without exposing token material.
func (c *Credential) String() string {
	return fmt.Sprintf("Credential{path=%s scopes=[%s] expiry=%s refreshable=%t}",
		c.Path, strings.Join(c.Scopes, " "), c.Expiry.Format(time.RFC3339), c.CanRefresh())
}
