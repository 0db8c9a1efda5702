package cmd

import (
	"context"

	"github.com/ardnew/lambdaeval/cli/cmd/repl"
	"github.com/ardnew/lambdaeval/log"
)

// Repl starts an interactive session against the frame.
type Repl struct {
	RenameAll bool `help:"Rename every captured value, not only those that collide" name:"rename-all"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	f, err := loadFrame(ctx)
	if err != nil {
		return err
	}

	return repl.Run(ctx, f, kongVar(ctx, CacheIdentifier), log.Default(),
		repl.WithRenameAll(r.RenameAll))
}
