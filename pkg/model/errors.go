package model

type errString string

func (e errString) Error() string { return string(e) }

const (
	// ErrInvalidCommitID indicates that a commit identifier is not a full hex object id
	ErrInvalidCommitID errString = "invalid commit id"

	// ErrInvalidBranch indicates an empty or malformed branch name in a push target
	ErrInvalidBranch errString = "invalid branch name"

	// ErrInvalidOrigin indicates a malformed remote name in a push target
	ErrInvalidOrigin errString = "invalid origin name"
)
