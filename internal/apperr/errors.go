package apperr

import "errors"

var (
	// ErrDocumentMissing means the live book document cannot be found.
	// Fatal: there is nothing to diff against.
	ErrDocumentMissing = errors.New("book document missing")

	// ErrStorageCorrupt means the journal file exists but cannot be
	// parsed. Callers recover by treating history as empty.
	ErrStorageCorrupt = errors.New("journal storage corrupt")

	// ErrNoPriorRevision means version control holds no committed copy
	// of the document yet. First-run state, not a failure.
	ErrNoPriorRevision = errors.New("no prior revision")

	// ErrExternalOperation means a version-control operation failed.
	ErrExternalOperation = errors.New("version control operation failed")
)
