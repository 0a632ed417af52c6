// Package log bridges the standard slog package into the secure logging
// pipeline.
//
// The Handler adapts slog records into pipeline records, so code written
// against *slog.Logger (including third-party libraries) gets the same
// sanitization, suspicious-pattern scanning, and security routing as
// direct SecureLogger callers.
//
// # Usage
//
//	secure, _ := logger.New(cfg)
//	slog.SetDefault(slog.New(log.NewHandler(secure, slog.LevelInfo)))
//
//	// Library code keeps using slog as usual; suspicious content still
//	// lands in the security log.
//	slog.Error("user password: hunter2")
package log
