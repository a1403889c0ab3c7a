// Package repository holds the ledger's in-memory tables and the
// backends that mirror them to persistent storage.  The sentinel
// values below let the service layer tell a missing record from a
// duplicate one without inspecting error text.
package repository

import "errors"

// ErrNotFound is returned when a lookup by id finds no record.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists is returned when an insert uses an id that is
// already taken in the same table.  The existing record is kept.
var ErrAlreadyExists = errors.New("record already exists")

// ErrDocumentNotFound is returned by a Backend when nothing has been
// persisted yet for a record kind.  Store.Load treats it as an empty
// table rather than a failure.
var ErrDocumentNotFound = errors.New("document not found")

// ErrCorruptStore wraps decode failures of persisted documents.  It is
// fatal at startup; the ledger does not attempt partial recovery.
var ErrCorruptStore = errors.New("corrupt persisted state")
