package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/lambdaeval/frame"
	"github.com/ardnew/lambdaeval/lang"
	"github.com/ardnew/lambdaeval/log"
)

// Invoke linearizes a lambda, pushes its captured values into the frame, and
// calls it with the given arguments.
type Invoke struct {
	RenameAll bool `help:"Rename every captured value, not only those that collide" name:"rename-all"`
	Show      bool `help:"Print the linearized lambda before the result"            short:"s"`

	Lambda string   `arg:"" help:"Lambda expression, e.g. 'x => x * y'"      name:"lambda"`
	Args   []string `arg:"" help:"Arguments bound to the lambda's parameters" name:"args"   optional:""`
}

// Run executes the invoke command.
func (i *Invoke) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	return i.run(ctx, os.Stdout)
}

func (i *Invoke) run(ctx context.Context, w io.Writer) error {
	f, err := loadFrame(ctx)
	if err != nil {
		return err
	}

	res, err := linearizer(f, i.RenameAll).LinearizeString(ctx, i.Lambda)
	if err != nil {
		return lang.WrapError(err).
			With(slog.String("command", "invoke"))
	}

	args := make([]any, len(i.Args))
	for n, arg := range i.Args {
		args[n] = frame.ParseArg(arg)
	}

	log.DebugContext(ctx, "invoke arguments",
		slog.String("pass", res.PassID.String()),
		slog.Any("args", args))

	out, err := f.Invoke(ctx, res, args...)
	if err != nil {
		return lang.WrapError(err).
			With(slog.String("command", "invoke"))
	}

	if i.Show {
		if _, err := fmt.Fprintln(w, res.Text); err != nil {
			return err
		}
	}

	_, err = fmt.Fprintln(w, formatValue(out))

	return err
}
