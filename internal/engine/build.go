package engine

import (
	"fmt"

	"github.com/inamate/fractalscape/internal/scene"
)

// BuildSceneGraph lays the scene's drawables out under a single root, in
// painter's order, with bounds in viewport space.
func BuildSceneGraph(s *scene.Scene, viewport Matrix2D) *SceneGraph {
	sg := NewSceneGraph()
	if s == nil {
		return sg
	}

	root := &SceneNode{
		ID:             "scene",
		Type:           "scene",
		WorldTransform: viewport,
		Visible:        true,
	}
	sg.NodesById[root.ID] = root

	for i, d := range s.Drawables() {
		node := &SceneNode{
			ID:             objectID(d.Kind(), i),
			Type:           d.Kind(),
			WorldTransform: viewport,
			Visible:        true,
			Parent:         root,
			Primitives:     d.Primitives(),
		}
		node.Bounds = computeNodeBounds(node)

		sg.NodesById[node.ID] = node
		root.Children = append(root.Children, node)
		if !node.Bounds.IsEmpty() {
			root.Bounds = root.Bounds.Union(node.Bounds)
		}
	}

	sg.Root = root
	sg.Dirty = false
	return sg
}

// objectID is stable for a given seed and configuration: the index is the
// drawable's position in painter's order.
func objectID(kind string, index int) string {
	return fmt.Sprintf("%s_%d", kind, index)
}

// computeNodeBounds unions the primitive extents and maps them to viewport
// space.
func computeNodeBounds(node *SceneNode) Rect {
	var local Rect
	for _, p := range node.Primitives {
		if r, ok := primitiveBounds(p); ok {
			local = local.Union(r)
		}
	}
	if local.IsEmpty() {
		return Rect{}
	}
	return node.WorldTransform.TransformRect(local)
}
