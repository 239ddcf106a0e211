package db

import "fmt"

// Steps of opening a handle that can fail.
const (
	OpOpen        = "open"
	OpSynchronize = "synchronize"
	OpMigrate     = "migrate"
	OpSubscribe   = "subscribe"
)

// ConnectionError reports a failure to bring up the database handle.
type ConnectionError struct {
	Op     string
	Target string
	Err    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("database %s failed for %s: %v", e.Op, e.Target, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}
