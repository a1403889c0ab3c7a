package service

import (
	"errors"
	"fmt"
)

// Reason classifies why the ledger refused an operation.  All reasons
// are recoverable: the tables are unchanged and the caller may retry
// with corrected input.
type Reason string

const (
	ReasonDuplicateIdentifier Reason = "duplicate_identifier"
	ReasonUnknownReference    Reason = "unknown_reference"
	ReasonExhaustedResource   Reason = "no_seats_available"
	ReasonNotFound            Reason = "not_found"
	ReasonInvalidInput        Reason = "invalid_input"
)

// Sentinels for errors.Is checks against a *Rejection.
var (
	ErrDuplicateIdentifier = errors.New("duplicate identifier")
	ErrUnknownReference    = errors.New("unknown reference")
	ErrExhaustedResource   = errors.New("no seats available")
	ErrNotFound            = errors.New("not found")
	ErrInvalidInput        = errors.New("invalid input")
)

// ErrPersistence wraps backend failures during save.  Unlike a
// Rejection it says nothing about the input.
var ErrPersistence = errors.New("persistence failure")

// Rejection is returned when an operation is refused.  Kind names the
// record type the reason applies to (train, schedule, passenger,
// booking) and ID the offending identifier.
type Rejection struct {
	Reason Reason
	Kind   string
	ID     string
	Detail string
}

func (r *Rejection) Error() string {
	switch r.Reason {
	case ReasonDuplicateIdentifier:
		return fmt.Sprintf("%s %q already exists", r.Kind, r.ID)
	case ReasonUnknownReference:
		return fmt.Sprintf("%s %q does not exist", r.Kind, r.ID)
	case ReasonExhaustedResource:
		return fmt.Sprintf("no seats available on %s %q", r.Kind, r.ID)
	case ReasonNotFound:
		return fmt.Sprintf("%s %q not found", r.Kind, r.ID)
	case ReasonInvalidInput:
		return fmt.Sprintf("invalid %s: %s", r.Kind, r.Detail)
	}
	return string(r.Reason)
}

// Is maps the rejection onto its sentinel.
func (r *Rejection) Is(target error) bool {
	switch target {
	case ErrDuplicateIdentifier:
		return r.Reason == ReasonDuplicateIdentifier
	case ErrUnknownReference:
		return r.Reason == ReasonUnknownReference
	case ErrExhaustedResource:
		return r.Reason == ReasonExhaustedResource
	case ErrNotFound:
		return r.Reason == ReasonNotFound
	case ErrInvalidInput:
		return r.Reason == ReasonInvalidInput
	}
	return false
}

func reject(reason Reason, kind, id string) *Rejection {
	return &Rejection{Reason: reason, Kind: kind, ID: id}
}

// AsRejection unwraps err into a *Rejection when it is one.
func AsRejection(err error) (*Rejection, bool) {
	var r *Rejection
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}
