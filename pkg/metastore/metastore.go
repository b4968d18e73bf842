// Package metastore persists per-commit metadata records out-of-band, as a
// single serialized blob attached to the commit identity.
//
// Records ride on the repository's note mechanism, so combining annotated
// commits (fixup, squash) can silently concatenate several blobs. Decoding
// therefore always takes the last non-empty line as the canonical value, and
// no special casing is needed anywhere else.
package metastore

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	"github.com/yggit/yggit/pkg/model"
	"github.com/yggit/yggit/pkg/vcs"
	"go.uber.org/zap"
)

type errString string

func (e errString) Error() string { return string(e) }

const (
	// ErrCorruptRecord means the stored blob does not decode to a metadata
	// record. Callers skip the commit and keep processing the others.
	ErrCorruptRecord errString = "corrupt metadata record"
)

// Store reads and writes metadata records keyed by commit identity.
type Store struct {
	notes vcs.NoteStore
	l     *zap.Logger
}

// Option customizes a Store.
type Option func(*Store)

// Logger injects a logging facility into the store.
func Logger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.l = l
		}
	}
}

// New builds a Store over the given note backend.
func New(notes vcs.NoteStore, opts ...Option) *Store {
	s := &Store{
		notes: notes,
		l:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Decode parses the canonical record out of a raw note blob: blank lines are
// discarded and only the last remaining line is interpreted.
func Decode(blob string) (model.Metadata, error) {
	line := ""
	for _, l := range strings.Split(blob, "\n") {
		if strings.TrimSpace(l) != "" {
			line = l
		}
	}
	if line == "" {
		return model.Metadata{}, errors.Wrap(ErrCorruptRecord, "empty blob")
	}
	var md model.Metadata
	if err := json.Unmarshal([]byte(line), &md); err != nil {
		return model.Metadata{}, errors.Wrap(ErrCorruptRecord, err.Error())
	}
	return md, nil
}

// Encode serializes a record to its single-line wire form.
func Encode(md model.Metadata) (string, error) {
	if md.Tests == nil {
		md.Tests = []string{}
	}
	out, err := json.Marshal(md)
	if err != nil {
		return "", errors.Wrap(ErrCorruptRecord, err.Error())
	}
	return string(out), nil
}

// Get returns the record for the commit, or ok=false when there is none.
func (s *Store) Get(ctx context.Context, id string) (model.Metadata, bool, error) {
	blob, ok, err := s.notes.ReadNote(ctx, id)
	if err != nil {
		return model.Metadata{}, false, err
	}
	if !ok {
		return model.Metadata{}, false, nil
	}
	md, err := Decode(blob)
	if err != nil {
		return model.Metadata{}, false, errors.Wrapf(err, "commit %s", id)
	}
	return md, true, nil
}

// Set fully replaces the record for the commit.
func (s *Store) Set(ctx context.Context, id string, md model.Metadata) error {
	blob, err := Encode(md)
	if err != nil {
		return errors.Wrapf(err, "commit %s", id)
	}
	return s.notes.WriteNote(ctx, id, blob)
}

// Delete removes the record for the commit. Deleting an absent record is a
// successful no-op.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.notes.DeleteNote(ctx, id)
}

// Put persists the record, pruning it when it equals the default value: a
// persisted record is never equal to the all-empty default.
func (s *Store) Put(ctx context.Context, id string, md model.Metadata) error {
	if md.IsDefault() {
		s.l.Debug("pruning default record", zap.String("commit", id))
		return s.Delete(ctx, id)
	}
	return s.Set(ctx, id, md)
}
