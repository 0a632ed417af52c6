package sink

import "github.com/seclog/seclog/internal/model"

// Sink is a single record output.
//
// Implementations must be safe for concurrent Write calls; the Manager
// does not serialize dispatch across callers.
type Sink interface {
	// Name identifies the sink in self-reported failure records.
	Name() string

	// MinLevel is the threshold a record's level must meet for this sink
	// to receive it. The security file sink additionally receives every
	// record carrying security matches regardless of level.
	MinLevel() model.Level

	// Write persists or sends one record. Write must not retain the
	// record after returning.
	Write(rec *model.Record) error

	// Close flushes buffered data and releases resources. Writes after
	// Close are an error.
	Close() error
}
