// Package eventstore defines the storage boundary of the event-sourced core:
// the scalar StorableEvent DTO, the error sentinels shared by all engine
// implementations, and the retry helper for optimistic concurrency conflicts.
//
// An engine persists one ordered event stream per aggregate identity and
// rejects an append whose expected stream version does not match the stored
// one. Two engines are provided: postgresengine (production) and memoryengine
// (tests, demos).
package eventstore
