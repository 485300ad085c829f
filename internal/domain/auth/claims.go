package auth

// Claims identifies the caller of an authenticated request. Tokens are issued by
// the surrounding identity provider; this service only verifies them.
type Claims struct {
	WorkerID string
	IsAdmin  bool
}
