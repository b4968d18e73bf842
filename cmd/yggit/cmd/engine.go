package cmd

import (
	"github.com/pkg/errors"
	"github.com/yggit/yggit/pkg/core"
	"github.com/yggit/yggit/pkg/dlogger"
	"github.com/yggit/yggit/pkg/editor"
	"github.com/yggit/yggit/pkg/vcs/gitgo"
)

// newEngine opens the repository under the configured path and wires the
// engine with the user's editor. Patched during test to avoid a real
// repository and a real editor.
var newEngine = func() (*core.Engine, error) {
	logger, err := dlogger.GetLogger(logLevel())
	if err != nil {
		return nil, errors.Wrap(err, "set log level")
	}
	repo, err := gitgo.Open(yggitFlags.root.path, gitgo.Logger(logger))
	if err != nil {
		return nil, err
	}
	ed := editor.New(repo.Config().Editor)
	return core.New(repo, core.WithEditor(ed), core.Logger(logger)), nil
}
