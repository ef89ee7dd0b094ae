package api

import (
	"fmt"
	"net/http"
)

// expiredTokenDetail is the body marker the remote API puts on a 401
// when the access token has expired. Only this exact marker triggers
// the refresh-and-retry path; any other 401 is terminal.
const expiredTokenDetail = "Token expired"

// APIError is a non-2xx response from the remote API, carrying the
// HTTP status and the "detail" field of the error body when present.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api: %d %s: %s", e.Status, http.StatusText(e.Status), e.Detail)
	}
	return fmt.Sprintf("api: %d %s", e.Status, http.StatusText(e.Status))
}

// TokenExpired reports whether this error is the expired-token 401.
func (e *APIError) TokenExpired() bool {
	return e.Status == http.StatusUnauthorized && e.Detail == expiredTokenDetail
}

// IsTokenExpired reports whether err is an expired-token 401 from the API.
func IsTokenExpired(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.TokenExpired()
}
