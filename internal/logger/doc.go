// Package logger provides the SecureLogger facade.
//
// SecureLogger ties the pipeline together: caller input passes through
// sanitization and suspicious-pattern scanning, becomes an immutable
// record, and is fanned out to the configured sinks. The application log
// receives everything at or above the threshold; the security log
// receives every record that matched a pattern regardless of level;
// console and email sinks are optional extras.
//
// The facade is safe for concurrent use. Logging methods never return
// errors: sink failures are contained by the sink manager and
// self-reported into the application log.
package logger
