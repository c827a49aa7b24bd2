// Package log provides a logging abstraction for sigtalk components.
//
// The link layer and the application wiring log through the [Logger]
// interface so they can be embedded without pulling a particular logging
// library into the caller. A zerolog adapter and a no-op logger are provided.
//
// # Usage
//
//	logger := log.NewZerologAdapterWithLogger(zerolog.New(os.Stderr))
//
//	logger.Info("message received",
//	    log.Int("peer", 4242),
//	    log.String("language", "French"),
//	)
//
// Use the no-op logger in tests:
//
//	logger := log.NewNoopLogger()
package log
