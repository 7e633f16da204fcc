package whiteboard

import (
	"fmt"
	"image"
	"io"

	"gopkg.in/yaml.v3"
)

// Op is one step of a whiteboard script. Settings in an op apply before its
// actions; actions run in the order import, clear, stroke, undo, redo.
//
//	- tool: rectangle
//	  color: "#FF0000"
//	  size: 4
//	  stroke: [[10, 10], [120, 80]]
//	- undo: true
type Op struct {
	Tool   string  `yaml:"tool,omitempty"`
	Color  string  `yaml:"color,omitempty"`
	Size   int     `yaml:"size,omitempty"`
	Import string  `yaml:"import,omitempty"`
	Clear  bool    `yaml:"clear,omitempty"`
	Stroke [][]int `yaml:"stroke,omitempty"`
	Undo   bool    `yaml:"undo,omitempty"`
	Redo   bool    `yaml:"redo,omitempty"`
}

// Script is an ordered list of ops replayed against a board
type Script []Op

// ParseScript decodes a YAML script
func ParseScript(data []byte) (Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse whiteboard script: %w", err)
	}
	return s, nil
}

// Opener resolves the path named by an import op
type Opener func(path string) (io.ReadCloser, error)

// Apply replays the script. It stops at the first invalid op.
func (s Script) Apply(b *Board, open Opener) error {
	for i, op := range s {
		if err := op.apply(b, open); err != nil {
			return fmt.Errorf("op %d: %w", i+1, err)
		}
	}
	return nil
}

func (op Op) apply(b *Board, open Opener) error {
	if op.Tool != "" {
		t, err := ParseTool(op.Tool)
		if err != nil {
			return err
		}
		b.SetTool(t)
	}
	if op.Color != "" {
		c, err := ParseColor(op.Color)
		if err != nil {
			return err
		}
		b.SetColor(c)
	}
	if op.Size != 0 {
		b.SetSize(op.Size)
	}
	if op.Import != "" {
		if open == nil {
			return fmt.Errorf("import %s: no opener configured", op.Import)
		}
		rc, err := open(op.Import)
		if err != nil {
			return fmt.Errorf("open %s: %w", op.Import, err)
		}
		err = b.Import(rc)
		rc.Close()
		if err != nil {
			return err
		}
	}
	if op.Clear {
		b.Clear()
	}
	if len(op.Stroke) > 0 {
		points := make([]image.Point, 0, len(op.Stroke))
		for _, xy := range op.Stroke {
			if len(xy) != 2 {
				return fmt.Errorf("stroke point %v: want [x, y]", xy)
			}
			points = append(points, image.Pt(xy[0], xy[1]))
		}
		b.Stroke(points...)
	}
	if op.Undo {
		b.Undo()
	}
	if op.Redo {
		b.Redo()
	}
	return nil
}
