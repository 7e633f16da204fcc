package runner

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestJavaScript(t *testing.T) {
	defer goleak.VerifyNone(t)

	tests := []struct {
		name       string
		source     string
		wantOutput string
		wantErr    string
	}{
		{
			name:       "completion value",
			source:     "1+1",
			wantOutput: "Result: 2",
		},
		{
			name:       "console log with objects",
			source:     "console.log('a', 1); console.log({x: 1})",
			wantOutput: "a 1\n{\n  \"x\": 1\n}",
		},
		{
			name:       "log then result",
			source:     "console.log('hi'); 'done'",
			wantOutput: "hi\n\nResult: \"done\"",
		},
		{
			name:       "top-level return",
			source:     "const a = 2;\nreturn a * 3;",
			wantOutput: "Result: 6",
		},
		{
			name:    "reference error",
			source:  "x.y",
			wantErr: "ReferenceError: x is not defined",
		},
		{
			name:       "output kept before fault",
			source:     "console.log('before'); throw new Error('boom')",
			wantOutput: "before",
			wantErr:    "Error: boom",
		},
	}

	js := NewJavaScript()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := js.Run(context.Background(), tt.source)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOutput, res.Output)
			if tt.wantErr == "" {
				assert.False(t, res.Failed())
			} else {
				assert.True(t, strings.HasPrefix(res.Err, tt.wantErr), "got %q", res.Err)
			}
		})
	}
}

func TestJavaScriptSyntaxError(t *testing.T) {
	res, err := NewJavaScript().Run(context.Background(), "function (")
	require.NoError(t, err)
	assert.True(t, res.Failed())
	assert.Empty(t, res.Output)
}

func TestJavaScriptInterrupted(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewJavaScript().Run(ctx, "while (true) {}")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestStarlark(t *testing.T) {
	s := NewStarlark()

	res, err := s.Run(context.Background(), "print('hi')\nx = 1\nprint(x + 1)")
	require.NoError(t, err)
	assert.Equal(t, "hi\n2", res.Output)

	res, err = s.Run(context.Background(), "1 + 2")
	require.NoError(t, err)
	assert.Equal(t, "Result: 3", res.Output)

	res, err = s.Run(context.Background(), "print('x')\nfail('nope')")
	require.NoError(t, err)
	assert.Equal(t, "x", res.Output)
	assert.Contains(t, res.Err, "nope")
}

func TestStarlarkCancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewStarlark().Run(ctx, "while True:\n    pass\n")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGo(t *testing.T) {
	g := NewGo()

	res, err := g.Run(context.Background(), "package main\n\nimport \"fmt\"\n\nfunc main() {\n\tfmt.Println(\"hi\")\n}\n")
	require.NoError(t, err)
	assert.False(t, res.Failed(), res.Err)
	assert.True(t, strings.HasPrefix(res.Output, "hi"), "got %q", res.Output)

	res, err = g.Run(context.Background(), "1 + 2")
	require.NoError(t, err)
	assert.Equal(t, "Result: 3", res.Output)
}

func TestGoForbiddenImports(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"program", "package main\n\nimport \"os\"\n\nfunc main() { os.Exit(1) }\n"},
		{"grouped", "package main\n\nimport (\n\t\"fmt\"\n\t\"net/http\"\n)\n\nfunc main() { fmt.Println(http.MethodGet) }\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := NewGo().Run(context.Background(), tt.source)
			require.NoError(t, err)
			assert.Contains(t, res.Err, "forbidden imports")
			assert.Empty(t, res.Output)
		})
	}
}

func TestValidateImportLines(t *testing.T) {
	assert.NoError(t, validateImportLines("import \"fmt\"\nfmt.Println(1)"))
	assert.Error(t, validateImportLines("import \"os/exec\"\nexec.Command(\"ls\")"))
	assert.Error(t, validateImportLines("import (\n\tsys \"syscall\"\n)\n"))
}

func TestSimulated(t *testing.T) {
	defer goleak.VerifyNone(t)

	res, err := NewSimulated(10*time.Millisecond).Run(context.Background(), "print(1)")
	require.NoError(t, err)
	assert.Equal(t, SimulatedOutput, res.Output)
	assert.False(t, res.Failed())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewSimulated(time.Hour).Run(ctx, "print(1)")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(Config{Timeout: time.Second, PythonDelay: time.Millisecond})

	assert.Equal(t, []string{"go", "javascript", "python", "starlark"}, r.Languages())
	assert.IsType(t, &JavaScript{}, r.Lookup("JavaScript"))
	assert.IsType(t, &Simulated{}, r.Lookup("ruby"))

	res, err := r.Run(context.Background(), "ruby", "puts 1")
	require.NoError(t, err)
	assert.Equal(t, SimulatedOutput, res.Output)

	r.Register("echo", RunnerFunc(func(_ context.Context, source string) (Result, error) {
		return Result{Output: source}, nil
	}))
	res, err = r.Run(context.Background(), "echo", "same")
	require.NoError(t, err)
	assert.Equal(t, "same", res.Output)
}

func TestRegistryTimeout(t *testing.T) {
	r := NewRegistry(Config{Timeout: 20 * time.Millisecond, PythonDelay: time.Hour})

	_, err := r.Run(context.Background(), "python", "")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
