package models

// TokenPair is the pair of bearer tokens issued on login and registration.
// Both values are opaque to the client.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Credentials is the durable client-side session state: the token pair plus
// the cached user profile. A zero Credentials value means "unauthenticated".
type Credentials struct {
	AccessToken  string
	RefreshToken string
	User         UserProfile
}
