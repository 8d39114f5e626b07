package eventstore

import (
	"errors"
)

// StreamVersionUint is a type alias for uint, representing the number of
// events persisted in one aggregate's stream. An append must supply the
// version it expects the stream to have; a mismatch is a concurrency conflict.
type StreamVersionUint = uint

var ErrEmptyEventsTableName = errors.New("empty events table name supplied")
var ErrEmptyStreamID = errors.New("empty stream id supplied")
var ErrNilDatabaseConnection = errors.New("database connection must not be nil")

// ErrConcurrencyConflict is returned when the expected stream version does not
// match the stored one at append time. The caller must reload and retry.
var ErrConcurrencyConflict = errors.New("concurrency conflict, expected stream version does not match")

var ErrBuildingQueryFailed = errors.New("failed to build query")
var ErrQueryingEventsFailed = errors.New("failed to query events")
var ErrScanningDBRowFailed = errors.New("failed to scan database row")
var ErrBuildingStorableEventFailed = errors.New("failed to build storable event from database row")
var ErrAppendingEventFailed = errors.New("failed to append event")
var ErrGettingRowsAffectedFailed = errors.New("failed to get rows affected count")
