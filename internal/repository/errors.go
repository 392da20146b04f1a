// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// booking engine and the handlers to distinguish between different
// failure scenarios. ErrStoreCorrupt in particular is not recoverable
// per request: the seat store must be repaired before booking resumes.
package repository

import "errors"

// ErrStoreMissing is returned when the seat store document does not exist
// on disk.  At startup this is the cue to seed; in steady state it means
// the file vanished underneath the process.
var ErrStoreMissing = errors.New("seat store missing")

// ErrStoreCorrupt is returned when the seat store document cannot be
// parsed or does not match the venue layout.  The store is never reset
// in response to this error.
var ErrStoreCorrupt = errors.New("seat store corrupt")

// ErrShowNotInStore is returned when a show has no seat map in the store.
var ErrShowNotInStore = errors.New("show has no seat map")

// ErrBookingNotFound is returned by the booking log when no booking has
// the requested ID.
var ErrBookingNotFound = errors.New("booking not found")
