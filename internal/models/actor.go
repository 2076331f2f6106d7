package models

// Actor is the authenticated user performing a request. Identity is
// issued elsewhere; the service only trusts the verified token.
type Actor struct {
	UserID string
	Name   string
}
