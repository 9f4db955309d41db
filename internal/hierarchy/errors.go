package hierarchy

import "errors"

var (
	// ErrNoCollectionLoaded is returned alongside an empty result when a query runs against an empty store.
	ErrNoCollectionLoaded = errors.New("no member list loaded")
	// ErrMemberNotFound means no record carries the requested id.
	ErrMemberNotFound = errors.New("member not found")
	// ErrNoReplacementAvailable means the member has neither an active sibling nor an active direct subordinate.
	ErrNoReplacementAvailable = errors.New("no replacement available")
	// ErrInvalidStateTransition is returned when removing an inactive member or restoring an active one.
	ErrInvalidStateTransition = errors.New("invalid state transition")
	// ErrInvalidOptions is returned by MergeOptions for values the engine cannot use.
	ErrInvalidOptions = errors.New("invalid hierarchy options")
)
