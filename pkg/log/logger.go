package log

import (
	"fmt"
	"time"
)

// Logger is the logging surface the link, transport and app layers write
// to. The CLI backs it with zerolog; tests use NoopLogger or a recorder.
type Logger interface {
	// Debug records per-notification detail.
	Debug(msg string, fields ...Field)

	// Info records message-level events such as a finalized message.
	Info(msg string, fields ...Field)

	// Warn records recoverable transport or sink problems.
	Warn(msg string, fields ...Field)

	// Error records aborted transmissions and failed setup.
	Error(msg string, fields ...Field)
}

// Field is one key/value attached to a log line.
type Field struct {
	Key   string
	Value interface{}
}

// String returns a string field.
func String(key, value string) Field { return Field{Key: key, Value: value} }

// Int returns an int field. Peer ids and byte offsets use it.
func Int(key string, value int) Field { return Field{Key: key, Value: value} }

// Float64 returns a float field.
func Float64(key string, value float64) Field { return Field{Key: key, Value: value} }

// Bool returns a bool field.
func Bool(key string, value bool) Field { return Field{Key: key, Value: value} }

// Duration returns a duration field.
func Duration(key string, value time.Duration) Field { return Field{Key: key, Value: value} }

// Stringer renders value with its String method when the line is built.
func Stringer(key string, value fmt.Stringer) Field { return Field{Key: key, Value: value} }

// Err returns a field under the "error" key.
func Err(err error) Field { return Field{Key: "error", Value: err} }

// Any returns a field holding an arbitrary value.
func Any(key string, value interface{}) Field { return Field{Key: key, Value: value} }
