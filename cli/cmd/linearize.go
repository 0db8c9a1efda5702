package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/lambdaeval/lang"
)

// Linearize rewrites a lambda so its body refers only to its parameters and
// to captured values that can be pushed into the frame.
type Linearize struct {
	Output    string `default:"text" enum:"text,yaml,json" help:"Output format (${enum})"                      short:"o"`
	RenameAll bool   `               help:"Rename every captured value, not only those that collide" name:"rename-all"`

	Lambda string `arg:"" help:"Lambda expression, e.g. 'x => x * y'" name:"lambda"`
}

// Run executes the linearize command.
func (l *Linearize) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	return l.run(ctx, os.Stdout)
}

func (l *Linearize) run(ctx context.Context, w io.Writer) error {
	f, err := loadFrame(ctx)
	if err != nil {
		return err
	}

	res, err := linearizer(f, l.RenameAll).LinearizeString(ctx, l.Lambda)
	if err != nil {
		return lang.WrapError(err).
			With(slog.String("command", "linearize"))
	}

	return writeResult(w, l.Output, res)
}
