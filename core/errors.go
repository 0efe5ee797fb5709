package core

import "fmt"

var (
	// ErrNotFound is returned when a single-record lookup matches zero
	// records. Callers distinguish it from transport or storage failures.
	ErrNotFound = fmt.Errorf("session record not found")

	// ErrStoreNotInitialized is returned by store operations after vault
	// initialization has failed. The failure is fatal for the process; it is
	// not retried automatically.
	ErrStoreNotInitialized = fmt.Errorf("session store not initialized")
)
