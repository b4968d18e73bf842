package gitgo

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// notesRef is the only notes ref yggit reads or writes. It matches the ref
// git itself uses for `git notes` without a --ref argument, so records stay
// visible to plain git tooling.
const notesRef = plumbing.ReferenceName("refs/notes/commits")

// notesTip returns the current notes commit, or nil when no note was ever
// written.
func (r *Repo) notesTip() (*object.Commit, error) {
	ref, err := r.repo.Reference(notesRef, true)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "resolve notes ref")
	}
	tip, err := r.repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, errors.Wrap(err, "load notes tip")
	}
	return tip, nil
}

// ReadNote returns the raw note blob attached to a commit. git stores note
// entries either flat or sharded into fanout directories, so both layouts are
// probed.
func (r *Repo) ReadNote(_ context.Context, id string) (string, bool, error) {
	tip, err := r.notesTip()
	if err != nil || tip == nil {
		return "", false, err
	}
	tree, err := tip.Tree()
	if err != nil {
		return "", false, errors.Wrap(err, "load notes tree")
	}

	for _, p := range notePaths(id) {
		f, ferr := tree.File(p)
		if ferr != nil {
			continue
		}
		blob, cerr := f.Contents()
		if cerr != nil {
			return "", false, errors.Wrapf(cerr, "read note for %s", id)
		}
		return blob, true, nil
	}
	return "", false, nil
}

func notePaths(id string) []string {
	if len(id) < 4 {
		return []string{id}
	}
	return []string{
		id,
		id[:2] + "/" + id[2:],
		id[:2] + "/" + id[2:4] + "/" + id[4:],
	}
}

// WriteNote attaches (or replaces) the note blob for a commit and records a
// new notes commit on refs/notes/commits.
func (r *Repo) WriteNote(_ context.Context, id, blob string) error {
	tip, err := r.notesTip()
	if err != nil {
		return err
	}
	entries, err := r.noteEntries(tip)
	if err != nil {
		return err
	}

	blobHash, err := r.storeBlob([]byte(blob))
	if err != nil {
		return err
	}
	entries[id] = blobHash

	r.l.Debug("writing note", zap.String("commit", id))
	return r.commitNotes(tip, entries, "Notes added by 'yggit'\n")
}

// DeleteNote removes the note for a commit. Deleting a note that does not
// exist is a no-op.
func (r *Repo) DeleteNote(_ context.Context, id string) error {
	tip, err := r.notesTip()
	if err != nil {
		return err
	}
	entries, err := r.noteEntries(tip)
	if err != nil {
		return err
	}
	if _, ok := entries[id]; !ok {
		return nil
	}
	delete(entries, id)

	r.l.Debug("deleting note", zap.String("commit", id))
	return r.commitNotes(tip, entries, "Notes removed by 'yggit'\n")
}

// noteEntries flattens the current notes tree into commit-id keyed blob
// hashes, collapsing any fanout directories.
func (r *Repo) noteEntries(tip *object.Commit) (map[string]plumbing.Hash, error) {
	out := map[string]plumbing.Hash{}
	if tip == nil {
		return out, nil
	}
	tree, err := tip.Tree()
	if err != nil {
		return nil, errors.Wrap(err, "load notes tree")
	}
	err = tree.Files().ForEach(func(f *object.File) error {
		out[strings.ReplaceAll(f.Name, "/", "")] = f.Hash
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "walk notes tree")
	}
	return out, nil
}

func (r *Repo) storeBlob(data []byte) (plumbing.Hash, error) {
	obj := r.repo.Storer.NewEncodedObject()
	obj.SetType(plumbing.BlobObject)
	w, err := obj.Writer()
	if err != nil {
		return plumbing.ZeroHash, errors.Wrap(err, "open blob writer")
	}
	if _, err = w.Write(data); err != nil {
		_ = w.Close()
		return plumbing.ZeroHash, errors.Wrap(err, "write note blob")
	}
	if err = w.Close(); err != nil {
		return plumbing.ZeroHash, errors.Wrap(err, "close note blob")
	}
	h, err := r.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return plumbing.ZeroHash, errors.Wrap(err, "store note blob")
	}
	return h, nil
}

// commitNotes writes the flattened entries as a single flat tree and advances
// refs/notes/commits to a commit holding it.
func (r *Repo) commitNotes(tip *object.Commit, entries map[string]plumbing.Hash, message string) error {
	names := make([]string, 0, len(entries))
	for n := range entries {
		names = append(names, n)
	}
	sort.Strings(names)

	treeEntries := make([]object.TreeEntry, 0, len(names))
	for _, n := range names {
		treeEntries = append(treeEntries, object.TreeEntry{
			Name: n,
			Mode: filemode.Regular,
			Hash: entries[n],
		})
	}

	treeObj := r.repo.Storer.NewEncodedObject()
	if err := (&object.Tree{Entries: treeEntries}).Encode(treeObj); err != nil {
		return errors.Wrap(err, "encode notes tree")
	}
	treeHash, err := r.repo.Storer.SetEncodedObject(treeObj)
	if err != nil {
		return errors.Wrap(err, "store notes tree")
	}

	sig := object.Signature{Name: r.cfg.Name, Email: r.cfg.Email, When: time.Now()}
	commit := &object.Commit{
		Author:    sig,
		Committer: sig,
		Message:   message,
		TreeHash:  treeHash,
	}
	if tip != nil {
		commit.ParentHashes = []plumbing.Hash{tip.Hash}
	}

	commitObj := r.repo.Storer.NewEncodedObject()
	if err := commit.Encode(commitObj); err != nil {
		return errors.Wrap(err, "encode notes commit")
	}
	commitHash, err := r.repo.Storer.SetEncodedObject(commitObj)
	if err != nil {
		return errors.Wrap(err, "store notes commit")
	}

	return r.repo.Storer.SetReference(plumbing.NewHashReference(notesRef, commitHash))
}
