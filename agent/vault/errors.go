package vault

import "errors"

// ErrNotFound is an error for a vault that doesn't exist in the storage.
var ErrNotFound = errors.New("vault not found")

// ErrAlreadyExists is an error for a vault creation collision.
var ErrAlreadyExists = errors.New("vault already exists")

// ErrNoActiveVault is an error for operations that need an active vault when
// none is selected.
var ErrNoActiveVault = errors.New("no active vault")
