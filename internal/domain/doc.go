// Package domain contains the core entities and value objects for sigtalk.
//
// This package has no dependencies on infrastructure concerns (sockets,
// files, logging) and holds only the link-layer rules.
//
// # Entities
//
//   - [Kind]: One of the four payload-free notification kinds on the wire
//   - [Notification]: A kind plus the identity of the process that sent it
//   - [BitAccumulator]: The 8-slot shift register that turns bits into bytes
//   - [Message]: The bounded byte buffer a receiver session fills
//   - [Received]: A finalized message handed to the logging collaborator
package domain
