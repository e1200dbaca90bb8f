package upgrade

import (
	"errors"
	"fmt"

	"upgrade_diff/internal/reconcile"
)

var (
	// ErrSourceUnreadable means the baseline or the working tree could not be enumerated.
	ErrSourceUnreadable = errors.New("source unreadable")
	// ErrEntryUnreadable means one side of an entry could not be read.
	ErrEntryUnreadable = errors.New("entry unreadable")
	// ErrDestinationUnwritable means a patch could not be written.
	ErrDestinationUnwritable = errors.New("destination unwritable")
)

// EntryError is a failure confined to one entry. It matches both its Kind and its cause with errors.Is.
type EntryError struct {
	Key  reconcile.Key
	Kind error
	Err  error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Key, e.Kind, e.Err)
}

func (e *EntryError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}
