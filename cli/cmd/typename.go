package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/lambdaeval/frame"
	"github.com/ardnew/lambdaeval/lang"
)

// Typename decomposes a runtime generic type name and, given a lambda,
// resolves the lambda's deferred type against it.
type Typename struct {
	Candidate []string `help:"Additional candidate slot type, tried in order" name:"candidate" sep:"none" short:"c"`
	Lambda    string   `help:"Lambda source to cast to the first acceptable candidate"          short:"l"`

	Name string `arg:"" help:"Fully qualified runtime type name" name:"name"`
}

// typenameReport is the YAML form of a decomposed name.
type typenameReport struct {
	Namespace string   `yaml:"namespace"`
	Name      string   `yaml:"name"`
	Literal   string   `yaml:"literal"`
	Cast      string   `yaml:"cast,omitempty"`
	Args      []string `yaml:"args"`
	Delegate  bool     `yaml:"delegate"`
}

// Run executes the typename command.
func (t *Typename) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	return t.run(ctx, os.Stdout)
}

func (t *Typename) run(_ context.Context, w io.Writer) error {
	name, err := lang.ParseTypeName(t.Name)
	if err != nil {
		return lang.WrapError(err).
			With(slog.String("command", "typename"))
	}

	r := typenameReport{
		Namespace: name.Namespace,
		Name:      name.Name,
		Literal:   name.Literal(),
		Args:      name.Args,
		Delegate:  name.IsDelegate(),
	}

	if t.Lambda != "" {
		candidates := make([]lang.TypeRef, 0, len(t.Candidate)+1)
		candidates = append(candidates, frame.TypeName(t.Name))

		for _, c := range t.Candidate {
			candidates = append(candidates, frame.TypeName(c))
		}

		val := lang.NewDeferredValue(t.Lambda)

		resolved, err := val.DeferredType().Resolve(candidates...)
		if err != nil {
			return lang.WrapError(err).
				With(slog.String("command", "typename"))
		}

		r.Cast, err = val.CastExpression(frame.TypeName(candidateFor(val, candidates)))
		if err != nil {
			return err
		}

		r.Literal = resolved.FullName()
	}

	return writeYAML(w, r)
}

// candidateFor returns the full name of the first candidate val accepts.
func candidateFor(val lang.DeferredValue, candidates []lang.TypeRef) string {
	for _, c := range candidates {
		if val.IsAcceptable(c) {
			return c.FullName()
		}
	}

	return ""
}
