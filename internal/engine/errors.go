package engine

import "errors"

// ErrAborted indicates the user walked away from an interactive resolution
// without confirming.
var ErrAborted = errors.New("aborted")

// ErrUndecided indicates workspaces that need a release decision before the
// operation can proceed.
var ErrUndecided = errors.New("release decisions are missing")
