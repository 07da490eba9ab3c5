// Package google loads stored OAuth credentials and turns them into
// authenticated HTTP clients for Google APIs.
//
// The package never runs an interactive authorization flow and never writes
// credentials back to disk. A credential file produced elsewhere (for example
// by an installed-app OAuth flow) is read, validated and used as-is. When the
// file carries a refresh token together with the OAuth client id and secret,
// expired access tokens are refreshed in memory by golang.org/x/oauth2.
package google
