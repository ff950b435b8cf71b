package domain

import "encoding/json"

// TokenResult carries the outcome of a password-grant call: the upstream
// HTTP status and the raw access-token envelope. The envelope is passed
// through verbatim and never parsed here; a nil Envelope with status 401
// is the unauthorized verdict.
type TokenResult struct {
	Status   int
	Envelope json.RawMessage
}

// Authorized reports whether the broker obtained a token.
func (r TokenResult) Authorized() bool {
	return r.Status >= 200 && r.Status < 300
}
