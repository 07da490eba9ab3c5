package google

import (
	"errors"
	"net/http"

	"google.golang.org/api/googleapi"
)

// Credential errors returned by LoadCredential and ParseCredential.
var (
	// ErrCredentialNotFound indicates the credential file does not exist.
	ErrCredentialNotFound = errors.New("google: credential file not found")

	// ErrCredentialMalformed indicates the credential file could not be decoded
	// or lacks required fields.
	ErrCredentialMalformed = errors.New("google: malformed credential")

	// ErrCredentialExpired indicates the access token expired and cannot be refreshed.
	ErrCredentialExpired = errors.New("google: credential expired without refresh token")
)

// IsUnauthorized returns true if the error indicates invalid credentials.
func IsUnauthorized(err error) bool {
	return hasStatus(err, http.StatusUnauthorized)
}

// IsForbidden returns true if the error indicates insufficient permissions.
func IsForbidden(err error) bool {
	return hasStatus(err, http.StatusForbidden)
}

// IsNotFound returns true if the error indicates the resource does not exist.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

func hasStatus(err error, code int) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == code
	}
	return false
}

// Hint returns a short troubleshooting message for an API or credential
// error, or the empty string when there is nothing specific to suggest.
func Hint(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrCredentialNotFound):
		return "no stored credential found; run an OAuth authorization flow and save the token file first"
	case errors.Is(err, ErrCredentialExpired):
		return "the stored access token expired and cannot be refreshed; re-authorize and save a new token file"
	case errors.Is(err, ErrCredentialMalformed):
		return "the token file is not a valid authorized-user credential"
	case IsUnauthorized(err):
		return "the credential was rejected; re-authorize with the drive.readonly scope"
	case IsForbidden(err):
		return "access denied; check that the folder is shared with the authenticated account and the token has drive.readonly scope"
	case IsNotFound(err):
		return "not found; the folder id may be incorrect or the folder was deleted"
	}
	return ""
}
