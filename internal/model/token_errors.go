package model

import "errors"

var (
	// ErrTokenExpired covers an elapsed expiry as well as an invalid
	// signature: both render the credential unusable.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid marks a token that decodes but lacks the subject
	// claim.
	ErrTokenInvalid = errors.New("token invalid")
)
