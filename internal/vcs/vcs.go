// Package vcs abstracts the version-control system the book list
// lives in. The core never assumes a specific implementation; anything
// satisfying System works, including the in-memory fake used in tests.
package vcs

// System is the external collaborator that persists and publishes the
// document.
type System interface {
	// HasUncommittedChanges reports whether the working tree (limited
	// to paths, when given) differs from the last committed state.
	HasUncommittedChanges(paths ...string) (bool, error)

	// ReadFileAtLastRevision returns the committed content of path at
	// the most recent revision. Returns an error wrapping
	// apperr.ErrNoPriorRevision when no committed copy exists.
	ReadFileAtLastRevision(path string) ([]byte, error)

	// StageCommitPush stages paths, commits them with message, and
	// publishes the result.
	StageCommitPush(paths []string, message string) error
}

// RepositoryChecker is an optional interface: implementations that
// can tell whether the working directory is under version control at
// all expose it, and the pipeline checks it before anything else.
type RepositoryChecker interface {
	IsRepository() bool
}
