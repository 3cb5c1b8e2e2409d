package draw

import "errors"

// Configuration and capacity errors. These are expected conditions reported to the
// caller and never leave the engine in a partially mutated state
var (
	ErrInvalidPool        = errors.New("invalid pool")
	ErrInvalidAwardConfig = errors.New("invalid award configuration")
	ErrAwardCompleted     = errors.New("award already completed")
	ErrInsufficientPool   = errors.New("insufficient pool")
	ErrAwardNotFound      = errors.New("award not found")
	ErrAwardExists        = errors.New("award already exists")
	ErrRoundInProgress    = errors.New("round already in progress")
	ErrNoRoundInProgress  = errors.New("no round in progress")
	ErrPoolInUse          = errors.New("pool has drawn winners or an open round")
	ErrNothingToExport    = errors.New("no winners to export")
)

// Internal invariant violations. The engine panics when it meets one of these after
// its own capacity checks passed
var (
	ErrAlreadyDrawn = errors.New("identifier already drawn")
	ErrNotInPool    = errors.New("identifier not in pool")
)
