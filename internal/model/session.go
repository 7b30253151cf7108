package model

// Session holds the credentials accumulated across the OAuth2 consent
// flow. Each step fills in the fields the next step needs. A session
// lives for one run and is never persisted.
type Session struct {
	ClientID              string
	AccessToken           string // client-credentials grant token
	ConsentID             string
	AuthorizationEndpoint string
	AuthorizationCode     string
	AuthAccessToken       string // authorization-code grant token
	RefreshToken          string
}

// Authorized reports whether the full consent flow has completed.
func (s *Session) Authorized() bool {
	return s.AuthAccessToken != ""
}
