package block

import "errors"

// ErrUnknownBlock is returned by Registry.Lookup (and anything built on it)
// for an id that was never registered.
var ErrUnknownBlock = errors.New("block: unknown block id")

// ErrDuplicateBlock is returned by Registry.Register when an id has
// already been registered.
var ErrDuplicateBlock = errors.New("block: duplicate block id")
