// Package export rasterises draw commands to PNG.
package export

import (
	"fmt"
	"io"

	"github.com/fogleman/gg"

	"github.com/inamate/fractalscape/internal/engine"
	"github.com/inamate/fractalscape/internal/geom"
)

// Rasterize paints commands onto a width x height canvas in order. Each
// command's transform is applied to its coordinates; stroke widths and radii
// scale with it.
func Rasterize(commands []engine.DrawCommand, width, height int) (*gg.Context, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid canvas size %dx%d", width, height)
	}

	ctx := gg.NewContext(width, height)
	ctx.SetRGB(0, 0, 0)
	ctx.Clear()
	ctx.SetLineCap(gg.LineCapRound)
	ctx.SetLineJoin(gg.LineJoinRound)

	for i, cmd := range commands {
		if err := paint(ctx, cmd); err != nil {
			return nil, fmt.Errorf("command %d (%s): %w", i, cmd.ObjectID, err)
		}
	}
	return ctx, nil
}

// WritePNG rasterises commands and encodes the result to w.
func WritePNG(w io.Writer, commands []engine.DrawCommand, width, height int) error {
	ctx, err := Rasterize(commands, width, height)
	if err != nil {
		return err
	}
	return ctx.EncodePNG(w)
}

func paint(ctx *gg.Context, cmd engine.DrawCommand) error {
	m := engine.Identity()
	if len(cmd.Transform) == 6 {
		copy(m[:], cmd.Transform)
	}
	scale := m.ScaleFactor()

	switch cmd.Op {
	case "circle":
		if len(cmd.Center) != 2 {
			return fmt.Errorf("circle needs a center")
		}
		if cmd.Radius <= 0 {
			return nil
		}
		c := m.Apply(geom.Pt(cmd.Center[0], cmd.Center[1]))
		ctx.DrawCircle(c.X, c.Y, cmd.Radius*scale)
		ctx.SetHexColor(cmd.Fill)
		ctx.Fill()

	case "polygon", "polyline":
		if err := tracePath(ctx, m, cmd.Path); err != nil {
			return err
		}
		if cmd.Op == "polygon" {
			ctx.SetHexColor(cmd.Fill)
			ctx.Fill()
			return nil
		}
		ctx.SetHexColor(cmd.Stroke)
		ctx.SetLineWidth(max(cmd.StrokeWidth, 1) * scale)
		ctx.Stroke()

	default:
		return fmt.Errorf("unknown op %q", cmd.Op)
	}
	return nil
}

func tracePath(ctx *gg.Context, m engine.Matrix2D, path []engine.PathCommand) error {
	ctx.NewSubPath()
	for _, seg := range path {
		if len(seg) == 0 {
			continue
		}
		op, _ := seg[0].(string)
		switch op {
		case "M", "L":
			if len(seg) < 3 {
				return fmt.Errorf("%s needs two coordinates", op)
			}
			x, okX := seg[1].(float64)
			y, okY := seg[2].(float64)
			if !okX || !okY {
				return fmt.Errorf("%s coordinates must be numbers", op)
			}
			p := m.Apply(geom.Pt(x, y))
			if op == "M" {
				ctx.MoveTo(p.X, p.Y)
			} else {
				ctx.LineTo(p.X, p.Y)
			}
		case "Z":
			ctx.ClosePath()
		default:
			return fmt.Errorf("unsupported path op %q", op)
		}
	}
	return nil
}
