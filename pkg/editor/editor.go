// Package editor hands a text buffer to the user's editor and returns the
// edited result. The whole run blocks on the editor process.
package editor

import (
	"context"
	"os"
	"os/exec"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

type errString string

func (e errString) Error() string { return string(e) }

const (
	// ErrEditorFailed means the editor process did not end successfully, which
	// is treated as abandoning the edit
	ErrEditorFailed errString = "editor did not end successfully"
)

// Editor opens a temp file in the configured editor command.
type Editor struct {
	command string
	fs      afero.Fs
	run     func(ctx context.Context, command, path string) error
}

// Option customizes an Editor.
type Option func(*Editor)

// Fs overrides the filesystem used for the edit buffer (memory fs in tests).
func Fs(fs afero.Fs) Option {
	return func(e *Editor) {
		e.fs = fs
	}
}

// Runner overrides the process launcher (patched in tests).
func Runner(run func(ctx context.Context, command, path string) error) Option {
	return func(e *Editor) {
		e.run = run
	}
}

// New builds an Editor around the given editor command.
func New(command string, opts ...Option) *Editor {
	e := &Editor{
		command: command,
		fs:      afero.NewOsFs(),
		run:     runProcess,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func runProcess(ctx context.Context, command, path string) error {
	cmd := exec.CommandContext(ctx, command, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Edit writes content to a scratch file, blocks on the editor and returns the
// edited text.
func (e *Editor) Edit(ctx context.Context, content string) (string, error) {
	f, err := afero.TempFile(e.fs, "", "yggit-*.txt")
	if err != nil {
		return "", errors.Wrap(err, "create plan file")
	}
	path := f.Name()
	defer func() { _ = e.fs.Remove(path) }()

	if _, err = f.WriteString(content); err != nil {
		_ = f.Close()
		return "", errors.Wrap(err, "write plan file")
	}
	if err = f.Close(); err != nil {
		return "", errors.Wrap(err, "close plan file")
	}

	if err = e.run(ctx, e.command, path); err != nil {
		return "", errors.Wrap(ErrEditorFailed, err.Error())
	}

	edited, err := afero.ReadFile(e.fs, path)
	if err != nil {
		return "", errors.Wrap(err, "read plan file back")
	}
	return string(edited), nil
}
