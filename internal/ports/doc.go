// Package ports defines the interfaces that connect the link layer to
// infrastructure adapters.
//
// # Port Interfaces
//
//   - [Transport]: Delivers payload-free notifications between processes
//   - [Classifier]: Detects the language of a finalized message
//   - [MessageSink]: Receives finalized messages (log file, console)
//
// The link layer (internal/link) depends only on these interfaces.
// Adapters (internal/adapters) implement them with an in-memory network,
// unix datagram sockets and an append-only log file.
package ports
