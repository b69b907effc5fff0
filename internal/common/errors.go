package common

import "errors"

// Business logic errors
var (
	// General errors
	ErrNotFound  = errors.New("resource not found")
	ErrForbidden = errors.New("forbidden")

	// Report errors
	ErrReportNotFound     = errors.New("report not found")
	ErrContentRequired    = errors.New("content is required")
	ErrContentTooLong     = errors.New("content exceeds the maximum length")
	ErrMediaCountInvalid  = errors.New("media count out of allowed range")
	ErrPetRequired        = errors.New("pet is required")
	ErrGuardianPostLocked = errors.New("guardian-authored report cannot be modified by admin")

	// Comment errors
	ErrCommentNotFound    = errors.New("comment not found")
	ErrInvalidScheduledAt = errors.New("invalid scheduled time")

	// Membership errors
	ErrGroupNotFound      = errors.New("group not found")
	ErrPetNotFound        = errors.New("pet not found")
	ErrMembershipNotFound = errors.New("membership request not found")
	ErrAlreadyRequested   = errors.New("membership already requested")
	ErrAlreadyLinked      = errors.New("pet is already linked to a group")
	ErrAlreadyDecided     = errors.New("membership request already decided")
	ErrNotRejected        = errors.New("only rejected requests can be deleted")

	// Auth errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")

	// Validation errors
	ErrInvalidInput = errors.New("invalid input")
)
