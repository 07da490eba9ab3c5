package google

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
)

// TokenProvider is an interface for providing OAuth tokens for Google APIs
// This abstraction allows different token sources (file-based, in-memory, etc.)
type TokenProvider interface {
	// Token returns a usable access token, refreshing it if needed
	Token(ctx context.Context) (*oauth2.Token, error)

	// HasToken reports whether a credential is available at all
	HasToken() bool
}

// FileTokenProvider provides tokens from a stored credential file
type FileTokenProvider struct {
	path string
}

// NewFileTokenProvider creates a new file-based token provider
func NewFileTokenProvider(path string) *FileTokenProvider {
	return &FileTokenProvider{path: path}
}

// Path returns the credential file path
func (p *FileTokenProvider) Path() string {
	return p.path
}

// Token loads the credential and returns a valid token from it
func (p *FileTokenProvider) Token(ctx context.Context) (*oauth2.Token, error) {
	cred, err := LoadCredential(p.path)
	if err != nil {
		return nil, err
	}

	token, err := cred.TokenSource(ctx).Token()
	if err != nil {
		return nil, fmt.Errorf("failed to get token from %s: %w", p.path, err)
	}

	return token, nil
}

// HasToken checks if a valid credential exists at the configured path
func (p *FileTokenProvider) HasToken() bool {
	_, err := LoadCredential(p.path)
	return err == nil
}
