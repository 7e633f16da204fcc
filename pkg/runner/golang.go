package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"go/parser"
	"go/token"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

// allowedGoImports is the set of packages a go cell may import. Anything that
// reaches the filesystem, network or process table is left out.
var allowedGoImports = map[string]bool{
	"bytes":           true,
	"encoding/base64": true,
	"encoding/json":   true,
	"errors":          true,
	"fmt":             true,
	"math":            true,
	"math/rand":       true,
	"regexp":          true,
	"sort":            true,
	"strconv":         true,
	"strings":         true,
	"time":            true,
	"unicode":         true,
}

// Go interprets cells with yaegi. Standard output is captured and the value
// of a trailing expression is appended as "Result: <value>".
type Go struct{}

// NewGo creates a Go runner
func NewGo() *Go {
	return &Go{}
}

// Run implements Runner
func (g *Go) Run(ctx context.Context, source string) (Result, error) {
	if err := validateGoImports(source); err != nil {
		return Result{Err: err.Error()}, nil
	}

	var stdout bytes.Buffer
	i := interp.New(interp.Options{Stdout: &stdout, Stderr: &stdout})
	if err := i.Use(stdlib.Symbols); err != nil {
		return Result{}, fmt.Errorf("load stdlib: %w", err)
	}

	value, err := i.EvalWithContext(ctx, source)
	output := strings.TrimRight(stdout.String(), "\n")
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return Result{Output: output}, ctxErr
		}
		return Result{Output: output, Err: err.Error()}, nil
	}

	if shown, ok := goValue(value); ok {
		if output != "" {
			output += "\n\n"
		}
		output += "Result: " + shown
	}
	return Result{Output: output}, nil
}

func goValue(v reflect.Value) (string, bool) {
	if !v.IsValid() || !v.CanInterface() {
		return "", false
	}
	switch v.Kind() {
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return "", false
	}
	return fmt.Sprintf("%v", v.Interface()), true
}

// validateGoImports parses only the import declarations of the cell. Cells
// without a package clause are checked as if they had one.
func validateGoImports(source string) error {
	src := source
	if !strings.HasPrefix(strings.TrimSpace(source), "package ") {
		src = "package main\n" + source
	}
	file, err := parser.ParseFile(token.NewFileSet(), "cell.go", src, parser.ImportsOnly)
	if err != nil {
		// Statement-only cells do not parse as a file; yaegi reports real
		// syntax errors itself, so fall back to a line scan for imports.
		return validateImportLines(source)
	}

	var forbidden []string
	for _, imp := range file.Imports {
		path, _ := strconv.Unquote(imp.Path.Value)
		if !allowedGoImports[path] {
			forbidden = append(forbidden, path)
		}
	}
	return forbiddenError(forbidden)
}

func validateImportLines(source string) error {
	var forbidden []string
	inBlock := false
	for _, line := range strings.Split(source, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "import ("):
			inBlock = true
			continue
		case inBlock && strings.HasPrefix(trimmed, ")"):
			inBlock = false
			continue
		case inBlock:
		case strings.HasPrefix(trimmed, "import "):
			trimmed = strings.TrimPrefix(trimmed, "import ")
		default:
			continue
		}
		fields := strings.Fields(trimmed)
		if len(fields) == 0 {
			continue
		}
		path := strings.Trim(fields[len(fields)-1], `"`)
		if path != "" && !allowedGoImports[path] {
			forbidden = append(forbidden, path)
		}
	}
	return forbiddenError(forbidden)
}

func forbiddenError(forbidden []string) error {
	if len(forbidden) == 0 {
		return nil
	}
	allowed := make([]string, 0, len(allowedGoImports))
	for pkg := range allowedGoImports {
		allowed = append(allowed, pkg)
	}
	sort.Strings(allowed)
	return fmt.Errorf("forbidden imports: %v (allowed: %s)", forbidden, strings.Join(allowed, ", "))
}
