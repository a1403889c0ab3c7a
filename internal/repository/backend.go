package repository

import "context"

// Kind names one of the four record tables.  It doubles as the document
// name in every backend (file name, SQL key, Redis key suffix).
type Kind string

const (
	KindTrains     Kind = "trains"
	KindSchedules  Kind = "schedules"
	KindPassengers Kind = "passengers"
	KindBookings   Kind = "bookings"
)

// Kinds lists all record kinds in the order they are loaded and saved.
var Kinds = []Kind{KindTrains, KindSchedules, KindPassengers, KindBookings}

// Backend stores one serialized document per record kind.  Write
// replaces the whole document; there is no append or partial update.
type Backend interface {
	// Read returns the document for kind or ErrDocumentNotFound.
	Read(ctx context.Context, kind Kind) ([]byte, error)
	// Write overwrites the document for kind.
	Write(ctx context.Context, kind Kind, body []byte) error
}
