package google

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
)

// NewHTTPClient returns an HTTP client that authorizes requests with ts.
// The client is configured to use HTTP/1.1 to avoid HTTP/2 protocol errors
func NewHTTPClient(ctx context.Context, ts oauth2.TokenSource) *http.Client {
	client := oauth2.NewClient(ctx, ts)

	// Force HTTP/1.1 by disabling HTTP/2
	if transport, ok := client.Transport.(*oauth2.Transport); ok {
		transport.Base = &http.Transport{
			Proxy:             http.ProxyFromEnvironment,
			ForceAttemptHTTP2: false,
		}
	}

	return client
}

// HTTPClientFromFile loads the credential at path and returns an authorized
// HTTP client for it together with the loaded credential.
func HTTPClientFromFile(ctx context.Context, path string) (*http.Client, *Credential, error) {
	cred, err := LoadCredential(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load Google credential: %w", err)
	}
	return NewHTTPClient(ctx, cred.TokenSource(ctx)), cred, nil
}
