package domain

import "time"

// TokenIssued is published once per phone number, after both index records
// for a newly derived token have been written.
type TokenIssued struct {
	EventID  string    `json:"id"`
	Type     string    `json:"type"` // always EventTokenIssued
	Token    string    `json:"token"`
	Region   string    `json:"region"` // ISO region of the phone number, never the number itself
	IssuedAt time.Time `json:"issued_at"`
}

const EventTokenIssued = "token.issued"

// ResolveTokenRequest is the body of POST /v1/tokens and POST /v1/tokens/exists.
type ResolveTokenRequest struct {
	Phone string `json:"phone" validate:"required,max=64"`
}

// LinkExternalIDRequest is the body of PUT /v1/external-ids/{id}.
type LinkExternalIDRequest struct {
	Token string `json:"token" validate:"required"`
}
