package frame

import "github.com/ardnew/lambdaeval/lang"

var (
	// ErrFrameLoad is returned when a frame snapshot cannot be read or
	// decoded.
	ErrFrameLoad = lang.NewError("cannot load frame")

	// ErrEvaluate is returned when resolution text is not an expression.
	ErrEvaluate = lang.NewError("cannot evaluate expression")

	// ErrExecute is returned when linearized text fails to compile or run.
	ErrExecute = lang.NewError("cannot execute lambda")
)
