package runner

import (
	"context"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

var starlarkOptions = &syntax.FileOptions{
	Set:             true,
	While:           true,
	TopLevelControl: true,
	GlobalReassign:  true,
}

// Starlark evaluates cells as Starlark, the Python dialect. print output is
// captured; a cell that is a single expression also reports its value.
type Starlark struct{}

// NewStarlark creates a Starlark runner
func NewStarlark() *Starlark {
	return &Starlark{}
}

// Run implements Runner
func (s *Starlark) Run(ctx context.Context, source string) (Result, error) {
	var lines []string
	thread := &starlark.Thread{
		Name: "cell",
		Print: func(_ *starlark.Thread, msg string) {
			lines = append(lines, msg)
		},
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			thread.Cancel(ctx.Err().Error())
		case <-done:
		}
	}()

	var value starlark.Value
	var err error
	if expr, perr := starlarkOptions.ParseExpr("cell.star", source, 0); perr == nil {
		value, err = starlark.EvalExprOptions(starlarkOptions, thread, expr, starlark.StringDict{})
	} else {
		_, err = starlark.ExecFileOptions(starlarkOptions, thread, "cell.star", source, starlark.StringDict{})
	}

	output := strings.Join(lines, "\n")
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{Output: output}, ctxErr
		}
		return Result{Output: output, Err: err.Error()}, nil
	}

	if value != nil && value != starlark.None {
		if output != "" {
			output += "\n\n"
		}
		output += "Result: " + value.String()
	}
	return Result{Output: output}, nil
}
