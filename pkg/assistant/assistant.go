// Package assistant provides the AI helper actions offered on cells. The
// only implementation is simulated: it waits a fixed delay and answers with
// templated text built from the input.
package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Action names an assistant operation
type Action string

const (
	ActionExplain  Action = "explain"
	ActionOptimize Action = "optimize"
	ActionEnhance  Action = "enhance"
	ActionGenerate Action = "generate"
)

// Actions lists every action in menu order
var Actions = []Action{ActionExplain, ActionOptimize, ActionEnhance, ActionGenerate}

// ParseAction converts a name to an Action
func ParseAction(s string) (Action, error) {
	for _, a := range Actions {
		if string(a) == strings.ToLower(strings.TrimSpace(s)) {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown assistant action %q", s)
}

// Service answers assistant requests. Each call may take arbitrarily long and
// must return ctx.Err() once ctx is done.
type Service interface {
	Explain(ctx context.Context, code string) (string, error)
	Optimize(ctx context.Context, code string) (string, error)
	Enhance(ctx context.Context, markdown string) (string, error)
	Generate(ctx context.Context, prompt string) (string, error)
}

// Do dispatches an action to the matching Service method
func Do(ctx context.Context, svc Service, action Action, input string) (string, error) {
	switch action {
	case ActionExplain:
		return svc.Explain(ctx, input)
	case ActionOptimize:
		return svc.Optimize(ctx, input)
	case ActionEnhance:
		return svc.Enhance(ctx, input)
	case ActionGenerate:
		return svc.Generate(ctx, input)
	}
	return "", fmt.Errorf("unknown assistant action %q", action)
}

// Base delays of the simulated actions
var delays = map[Action]time.Duration{
	ActionOptimize: 2000 * time.Millisecond,
	ActionExplain:  1500 * time.Millisecond,
	ActionEnhance:  1000 * time.Millisecond,
	ActionGenerate: 2000 * time.Millisecond,
}

// Simulated is a Service that never leaves the process
type Simulated struct {
	scale float64
}

// NewSimulated creates a simulated assistant. scale multiplies every delay;
// zero answers immediately.
func NewSimulated(scale float64) *Simulated {
	if scale < 0 {
		scale = 0
	}
	return &Simulated{scale: scale}
}

// Delay returns the scaled latency of an action
func (s *Simulated) Delay(action Action) time.Duration {
	return time.Duration(float64(delays[action]) * s.scale)
}

func (s *Simulated) wait(ctx context.Context, action Action) error {
	d := s.Delay(action)
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Explain implements Service
func (s *Simulated) Explain(ctx context.Context, code string) (string, error) {
	if err := s.wait(ctx, ActionExplain); err != nil {
		return "", err
	}

	kind := "script"
	if strings.Contains(code, "function") {
		kind = "function"
	}
	style := "traditional"
	if strings.Contains(code, "const") || strings.Contains(code, "let") {
		style = "modern JavaScript"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "This code appears to be a %s that:\n\n", kind)
	b.WriteString("1. Defines variables and data structures\n")
	b.WriteString("2. Implements core logic for processing\n")
	b.WriteString("3. Returns or outputs results\n\n")
	b.WriteString("Key concepts used:\n")
	fmt.Fprintf(&b, "- %s\n", when(code, "for", "Loops for iteration"))
	fmt.Fprintf(&b, "- %s\n", when(code, "if", "Conditional statements"))
	fmt.Fprintf(&b, "- %s\n\n", when(code, "function", "Function definitions"))
	fmt.Fprintf(&b, "The code follows %s patterns.", style)
	return b.String(), nil
}

func when(code, needle, text string) string {
	if strings.Contains(code, needle) {
		return text
	}
	return ""
}

// Optimize implements Service
func (s *Simulated) Optimize(ctx context.Context, code string) (string, error) {
	if err := s.wait(ctx, ActionOptimize); err != nil {
		return "", err
	}
	return "// Optimized version of your code\n" + code + "\n\n" +
		"// AI Suggestions:\n" +
		"// 1. Consider using const instead of let where possible\n" +
		"// 2. Add error handling for edge cases\n" +
		"// 3. Consider memoization for expensive operations", nil
}

// Enhance implements Service
func (s *Simulated) Enhance(ctx context.Context, markdown string) (string, error) {
	if err := s.wait(ctx, ActionEnhance); err != nil {
		return "", err
	}
	return "# Enhanced Version\n\n" + markdown + "\n\n" +
		"## AI Suggestions:\n" +
		"- Added proper heading structure\n" +
		"- Improved formatting and readability\n" +
		"- Consider adding more specific examples\n" +
		"- Use bullet points for better organization", nil
}

// Generate implements Service
func (s *Simulated) Generate(ctx context.Context, prompt string) (string, error) {
	if err := s.wait(ctx, ActionGenerate); err != nil {
		return "", err
	}
	return fmt.Sprintf("Based on your prompt: %q\n\n", prompt) +
		"Here's some generated content:\n\n" +
		"This is a simulated AI response that would provide relevant information, code examples, or explanations based on your specific request. In a real implementation, this would connect to an AI service.\n\n" +
		"Key points:\n" +
		"- Relevant to your query\n" +
		"- Structured and helpful\n" +
		"- Ready to use in your notebook", nil
}
