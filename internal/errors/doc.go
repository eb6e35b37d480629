// Package errors provides structured errors for the arena.
//
// Every error carries a Code, a short message and optional metadata. Codes
// let callers separate rejected moves from store faults without string
// matching:
//
//	err := errors.FailedPrecondition("not your turn").
//	    WithMeta("player_id", playerID)
//
//	if errors.IsFailedPrecondition(err) {
//	    // the move was rejected before anything was written
//	}
//
// # Layer Guidelines
//
// Engine rules return InvalidArgument or FailedPrecondition for illegal
// moves and DataLoss for malformed card data. Repositories return NotFound,
// AlreadyExists and Aborted (lost compare-and-set). Orchestrators wrap
// repository errors with Wrap so the original code survives.
//
// Reason turns any error into a sentence that can be shown to a player.
package errors
