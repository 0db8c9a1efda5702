package cmd

import (
	"context"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ardnew/lambdaeval/frame"
	"github.com/ardnew/lambdaeval/lang"
	"github.com/ardnew/lambdaeval/log"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// kongVar returns the kong variable named id, or the empty string when ctx
// carries no kong context.
func kongVar(ctx context.Context, id string) string {
	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return ""
	}

	return ktx.Model.Vars()[id]
}

// FrameSource selects the frame snapshot that commands resolve names
// against.
type FrameSource struct {
	// Path is a YAML snapshot file, "-" for stdin, or empty for a frame with
	// no receiver and no locals.
	Path string
	// Enclosing names the enclosing type of an empty frame.
	Enclosing string
}

type frameSourceKey struct{}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// WithFrameSource returns a new context.Context containing src.
func WithFrameSource(ctx context.Context, src FrameSource) context.Context {
	return context.WithValue(ctx, frameSourceKey{}, src)
}

func frameSourceFrom(ctx context.Context) FrameSource {
	src, _ := ctx.Value(frameSourceKey{}).(FrameSource)

	return src
}

// loadFrame loads the frame selected by [WithFrameSource].
func loadFrame(ctx context.Context) (*frame.Frame, error) {
	src := frameSourceFrom(ctx)
	opt := frame.WithLogger(log.Default())

	switch src.Path {
	case "":
		return frame.Empty(src.Enclosing, opt), nil
	case stdinSource:
		return frame.Load(os.Stdin, opt)
	default:
		return frame.LoadFile(src.Path, opt)
	}
}

// linearizer returns a linearizer resolving names against f.
func linearizer(f *frame.Frame, renameAll bool) *lang.Linearizer {
	return lang.NewLinearizer(f, f,
		lang.WithLogger(log.Default()),
		lang.WithRenameAll(renameAll),
	)
}
