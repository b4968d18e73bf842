package model

import (
	"strings"
	"unicode"
)

// Commit is one commit of the working stack, referenced by identity only.
// It is owned by the underlying repository and never mutated here.
type Commit struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// ValidateID checks that id is a full lowercase hex object id.
func ValidateID(id string) error {
	if len(id) != 40 {
		return ErrInvalidCommitID
	}
	for _, c := range id {
		isHex := (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')
		if !isHex {
			return ErrInvalidCommitID
		}
	}
	return nil
}

// ValidateBranch checks a branch name for characters the plan grammar cannot
// represent. Colons separate origin from branch and whitespace ends a token.
func ValidateBranch(branch string) error {
	if branch == "" {
		return ErrInvalidBranch
	}
	if strings.ContainsRune(branch, ':') {
		return ErrInvalidBranch
	}
	for _, c := range branch {
		if unicode.IsSpace(c) {
			return ErrInvalidBranch
		}
	}
	return nil
}

// ValidateOrigin checks a remote name. An empty origin is valid and means
// "use the configured default upstream".
func ValidateOrigin(origin string) error {
	if origin == "" {
		return nil
	}
	if strings.ContainsRune(origin, ':') {
		return ErrInvalidOrigin
	}
	for _, c := range origin {
		if unicode.IsSpace(c) {
			return ErrInvalidOrigin
		}
	}
	return nil
}
