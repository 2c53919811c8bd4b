package core

import "errors"

// Sentinel errors for the core's narrow set of caller-facing failures (§7).
// Nothing inside a tick ever returns one of these — per-tick results are
// values (PathResult.Success, Resolution.Applied); these are reserved for
// setup-time misuse that the host should fix, not recover from per tick.
var (
	// ErrInvalidDt is returned by callers that validate dt themselves;
	// the core's own tick functions treat a non-positive dt as a contract
	// violation (assertion in debug, undefined-but-bounded in release, §7)
	// rather than returning an error from inside the tick loop.
	ErrInvalidDt = errors.New("core: dt must be positive")

	// ErrDuplicateCollider signals a second collider for a handle that
	// already has one (§3 invariant: at most one collider per handle). The
	// engine's AddOrUpdate/AddOrUpdateRect upsert instead and never return
	// it.
	ErrDuplicateCollider = errors.New("core: collider already registered for entity")

	// ErrUnknownAgent signals a handle with no bound agent. The
	// CoordinationManager's own methods ignore such handles and never
	// return it.
	ErrUnknownAgent = errors.New("core: no agent bound to entity")
)
