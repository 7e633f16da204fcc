package runner

import (
	"context"
	"errors"
	"strings"

	"github.com/dop251/goja"
)

// JavaScript evaluates cells with the goja engine. console.log output is
// captured and the completion value, when defined, is appended as
// "Result: <json>". A top-level return is accepted, as if the cell were a
// function body.
type JavaScript struct{}

// NewJavaScript creates a JavaScript runner
func NewJavaScript() *JavaScript {
	return &JavaScript{}
}

// Run implements Runner
func (j *JavaScript) Run(ctx context.Context, source string) (Result, error) {
	prog, err := compileJS(source)
	if err != nil {
		return Result{Err: err.Error()}, nil
	}

	vm := goja.New()
	var lines []string

	console := vm.NewObject()
	_ = console.Set("log", func(call goja.FunctionCall) goja.Value {
		parts := make([]string, len(call.Arguments))
		for i, arg := range call.Arguments {
			parts[i] = formatJS(vm, arg)
		}
		lines = append(lines, strings.Join(parts, " "))
		return goja.Undefined()
	})
	_ = vm.Set("console", console)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			vm.Interrupt(ctx.Err())
		case <-done:
		}
	}()

	value, err := vm.RunProgram(prog)
	output := strings.Join(lines, "\n")
	if err != nil {
		var interrupted *goja.InterruptedError
		if errors.As(err, &interrupted) {
			return Result{Output: output}, ctx.Err()
		}
		var exception *goja.Exception
		if errors.As(err, &exception) {
			return Result{Output: output, Err: exception.Value().String()}, nil
		}
		return Result{Output: output, Err: err.Error()}, nil
	}

	if value != nil && !goja.IsUndefined(value) {
		if output != "" {
			output += "\n\n"
		}
		output += "Result: " + stringifyJS(vm, value)
	}
	return Result{Output: output}, nil
}

// compileJS compiles the cell as a script, retrying as a function body so
// cells may end with a top-level return.
func compileJS(source string) (*goja.Program, error) {
	prog, err := goja.Compile("cell.js", source, false)
	if err == nil {
		return prog, nil
	}
	if wrapped, werr := goja.Compile("cell.js", "(function() {\n"+source+"\n})()", false); werr == nil {
		return wrapped, nil
	}
	return nil, err
}

func formatJS(vm *goja.Runtime, v goja.Value) string {
	if obj, ok := v.(*goja.Object); ok && obj.ClassName() != "Function" {
		return stringifyJS(vm, v)
	}
	return v.String()
}

func stringifyJS(vm *goja.Runtime, v goja.Value) string {
	json := vm.Get("JSON").ToObject(vm)
	stringify, ok := goja.AssertFunction(json.Get("stringify"))
	if !ok {
		return v.String()
	}
	out, err := stringify(json, v, goja.Null(), vm.ToValue(2))
	if err != nil || out == nil || goja.IsUndefined(out) {
		return v.String()
	}
	return out.String()
}
