package domain

// User is the profile returned by the remote API's /auth/me endpoint.
type User struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// Session is the authenticated identity plus its bearer tokens.
// It is what gets serialized to the credential store; absence of a
// stored record means anonymous.
type Session struct {
	User         User   `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// Empty reports whether the session carries no usable identity.
func (s Session) Empty() bool {
	return s.AccessToken == ""
}
