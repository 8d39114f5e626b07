// Package postgresengine implements the event store on Postgres.
//
// Events live in a single table with one ordered stream per aggregate
// identity. The optimistic concurrency check is pushed into the append
// statement itself: a CTE observes the stream's current version and the
// INSERT ... SELECT only yields rows while the guard
// current_version = expected_version holds, so a conflicting writer simply
// affects zero rows and the store reports eventstore.ErrConcurrencyConflict
// without any explicit locking.
//
// Expected schema:
//
//	CREATE TABLE events (
//	    stream_id   text                     NOT NULL,
//	    version     bigint                   NOT NULL,
//	    event_type  text                     NOT NULL,
//	    occurred_at timestamp with time zone NOT NULL,
//	    payload     jsonb                    NOT NULL,
//	    metadata    jsonb                    NOT NULL,
//	    PRIMARY KEY (stream_id, version)
//	);
package postgresengine
