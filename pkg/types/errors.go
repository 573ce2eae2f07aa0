package types

import "errors"

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)

// Record errors.
var (
	ErrNotFound    = errors.New("record not found")
	ErrInvalidData = errors.New("invalid record data")
)

// Schema definition errors.
var (
	ErrInvalidSchema           = errors.New("invalid schema")
	ErrEmptyName               = errors.New("name must not be empty")
	ErrDuplicateName           = errors.New("duplicate name")
	ErrNoColumns               = errors.New("at least one column is required")
	ErrUnknownColumnType       = errors.New("unknown column type")
	ErrInvalidAutoIncrement    = errors.New("autoincrement requires an integer primary key")
	ErrInvalidDefault          = errors.New("invalid default value")
	ErrUnknownForeignKeyAction = errors.New("unknown foreign key action")
	ErrUnknownTiming           = errors.New("unknown trigger timing")
	ErrUnknownEvent            = errors.New("unknown trigger event")
	ErrEmptyTriggerBody        = errors.New("trigger body must not be empty")
)
