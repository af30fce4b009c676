package engine

import (
	"encoding/json"

	"github.com/inamate/fractalscape/internal/fractal"
	"github.com/inamate/fractalscape/internal/geom"
)

// hitTolerance widens thin strokes and small leaves so they can be picked,
// in scene units.
const hitTolerance = 2.0

// DrawCommand represents a single drawing operation for the frontend to execute.
// The frontend receives a list of these and executes them on a Canvas2D context.
type DrawCommand struct {
	Op          string        `json:"op"`                    // "polyline", "polygon" or "circle"
	ObjectID    string        `json:"objectId,omitempty"`    // For hit correlation
	Transform   []float64     `json:"transform,omitempty"`   // [a, b, c, d, e, f] affine matrix
	Path        []PathCommand `json:"path,omitempty"`        // polyline and polygon vertices
	Center      []float64     `json:"center,omitempty"`      // circle center [x, y]
	Radius      float64       `json:"radius,omitempty"`      // circle radius
	Fill        string        `json:"fill,omitempty"`        // Fill color
	Stroke      string        `json:"stroke,omitempty"`      // Stroke color
	StrokeWidth float64       `json:"strokeWidth,omitempty"` // Stroke width
}

// CompileDrawCommands generates a draw command buffer from a scene graph.
// Commands are in painter's order (back to front).
func CompileDrawCommands(sg *SceneGraph) []DrawCommand {
	if sg == nil || sg.Root == nil {
		return nil
	}

	var commands []DrawCommand
	compileNode(sg.Root, &commands)
	return commands
}

// compileNode emits one command per primitive, then recurses into children.
func compileNode(node *SceneNode, commands *[]DrawCommand) {
	if node == nil || !node.Visible {
		return
	}

	transform := node.WorldTransform.ToSlice()
	for _, p := range node.Primitives {
		*commands = append(*commands, compilePrimitive(node.ID, transform, p))
	}

	for _, child := range node.Children {
		compileNode(child, commands)
	}
}

func compilePrimitive(id string, transform []float64, p fractal.Primitive) DrawCommand {
	cmd := DrawCommand{
		Op:        string(p.Kind),
		ObjectID:  id,
		Transform: transform,
	}
	switch p.Kind {
	case fractal.PrimitiveCircle:
		cmd.Center = []float64{p.Center.X, p.Center.Y}
		cmd.Radius = p.Radius
		cmd.Fill = p.Color.Hex()
	case fractal.PrimitivePolygon:
		cmd.Path = pathFromPoints(p.Points, true)
		cmd.Fill = p.Color.Hex()
	default:
		cmd.Path = pathFromPoints(p.Points, false)
		cmd.Stroke = p.Color.Hex()
		cmd.StrokeWidth = float64(p.Width)
	}
	return cmd
}

func pathFromPoints(pts []geom.Point, closed bool) []PathCommand {
	path := make([]PathCommand, 0, len(pts)+1)
	for i, p := range pts {
		op := "L"
		if i == 0 {
			op = "M"
		}
		path = append(path, PathCommand{op, p.X, p.Y})
	}
	if closed && len(pts) > 0 {
		path = append(path, PathCommand{"Z"})
	}
	return path
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	if commands == nil {
		return "[]", nil
	}
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}

// HitTestResult contains information about a hit test.
type HitTestResult struct {
	ObjectID string  `json:"objectId"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

// HitTest returns the ID of the frontmost shape under the viewport point
// (x, y), or the empty string. The background is never hit.
func HitTest(sg *SceneGraph, x, y float64) string {
	if sg == nil || sg.Root == nil {
		return ""
	}
	return hitTestNode(sg.Root, x, y)
}

// hitTestNode tests children front to back, then the node itself.
func hitTestNode(node *SceneNode, x, y float64) string {
	if node == nil || !node.Visible {
		return ""
	}

	for i := len(node.Children) - 1; i >= 0; i-- {
		if hit := hitTestNode(node.Children[i], x, y); hit != "" {
			return hit
		}
	}

	if node.Type == "background" || len(node.Primitives) == 0 || node.Bounds.IsEmpty() {
		return ""
	}
	if !node.Bounds.Inflate(hitTolerance*node.WorldTransform.ScaleFactor()).Contains(x, y) {
		return ""
	}

	local := node.WorldTransform.Invert().Apply(geom.Pt(x, y))
	for i := len(node.Primitives) - 1; i >= 0; i-- {
		if primitiveContains(node.Primitives[i], local) {
			return node.ID
		}
	}
	return ""
}

// primitiveContains tests p against the scene-space point q.
func primitiveContains(p fractal.Primitive, q geom.Point) bool {
	switch p.Kind {
	case fractal.PrimitiveCircle:
		return p.Center.Distance(q) <= p.Radius+hitTolerance
	case fractal.PrimitivePolygon:
		return geom.PolygonContains(p.Points, q)
	default:
		reach := float64(p.Width)/2 + hitTolerance
		for i := 1; i < len(p.Points); i++ {
			if (geom.Line{From: p.Points[i-1], To: p.Points[i]}).DistanceTo(q) <= reach {
				return true
			}
		}
		return false
	}
}

// GetSelectionBounds returns the combined bounding box of the given object IDs.
func GetSelectionBounds(sg *SceneGraph, objectIDs []string) Rect {
	if sg == nil || len(objectIDs) == 0 {
		return Rect{}
	}

	var result Rect
	for _, id := range objectIDs {
		node, ok := sg.NodesById[id]
		if !ok || node.Bounds.IsEmpty() {
			continue
		}
		result = result.Union(node.Bounds)
	}
	return result
}

// RectToJSON serializes a Rect to JSON.
func RectToJSON(r Rect) string {
	data, _ := json.Marshal(r)
	return string(data)
}
