// Package agent is the boundary to the external browser-automation agent.
// The agent is an opaque capability: it takes a natural-language task
// description and returns loosely JSON-shaped text. This package owns the
// session lifecycle and the strict decoding of that text; it knows nothing
// about bookmakers or matching.
package agent

import "context"

// Runner is one live automation session. A session wraps one browser on
// the agent side and is the expensive resource the pool manages.
type Runner interface {
	// Run executes one task in the session's browser and returns the
	// agent's raw textual output.
	Run(ctx context.Context, task string) (string, error)
	// Close tears the session (and its browser) down.
	Close() error
}

// Factory opens new sessions. The caller owns every session it receives
// and must Close it.
type Factory interface {
	New(ctx context.Context) (Runner, error)
}
