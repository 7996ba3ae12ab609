package banyan

// sentinelRoot is the shared stand-in parent borrowed by detached nodes
// during transform and bounds queries, giving them a well-defined world space
// (identity transform, worldAlpha 1). It is constructed eagerly at process
// start, never exposed to application code, never mutated, and never given a
// parent.
var sentinelRoot *Node

func init() {
	sentinelRoot = &Node{Name: "sentinel-root", Type: NodeTypeContainer}
	nodeDefaults(sentinelRoot)
}

// UpdateTransform recomputes this node's world matrix from its parent's and
// derives worldAlpha. The parent's world state must already be current; this
// is the single propagation primitive, so each node reads only its direct
// parent. The node's boundsID is bumped on every call, invalidating the
// bounds cache.
//
// The node must have a parent. Detached roots go through UpdateTransformTree,
// GetBounds, ToGlobal, or ToLocal, which substitute the sentinel root.
func (n *Node) UpdateTransform() {
	n.boundsID++
	n.Transform.UpdateTransform(&n.Parent.Transform)
	n.worldAlpha = n.Alpha * n.Parent.worldAlpha
}

// UpdateTransformTree updates this node's transform and recurses into visible
// children, parent before child. Detached roots borrow the sentinel root for
// the duration of the walk.
func (n *Node) UpdateTransformTree() {
	if n.Parent == nil {
		n.Parent = sentinelRoot
		n.Transform.invalidateWorld()
		n.updateTransformTree()
		n.Parent = nil
		return
	}
	n.updateTransformTree()
}

func (n *Node) updateTransformTree() {
	n.UpdateTransform()
	for _, child := range n.children {
		if child.Visible {
			child.updateTransformTree()
		}
	}
}

// recursivePostUpdateTransform refreshes the ancestor chain's world matrices
// from the root down to this node, parent before child. It lets on-demand
// coordinate queries see current ancestor state even when the frame's normal
// top-down walk has not reached this subtree yet. Unlike UpdateTransform it
// touches neither boundsID nor worldAlpha.
func (n *Node) recursivePostUpdateTransform() {
	if n.Parent != nil {
		n.Parent.recursivePostUpdateTransform()
		n.Transform.UpdateTransform(&n.Parent.Transform)
		return
	}
	n.Transform.invalidateWorld()
	n.Transform.UpdateTransform(&sentinelRoot.Transform)
}

// --- Bounds ---

// GetBounds returns the node's axis-aligned bounds in world space.
//
// When skipUpdate is false, transforms are refreshed first (through the
// sentinel root for detached nodes) so the result reflects current state.
// Passing skipUpdate=true skips that refresh and may return stale bounds —
// an explicit accuracy/performance tradeoff for callers inside a frame that
// already updated transforms.
//
// Bounds are cached: the accumulator is rebuilt only when boundsID has moved
// past lastBoundsID.
func (n *Node) GetBounds(skipUpdate bool) Rect {
	if !skipUpdate {
		if n.Parent == nil {
			n.Parent = sentinelRoot
			n.Transform.invalidateWorld()
			n.updateTransformTree()
			n.Parent = nil
		} else {
			n.recursivePostUpdateTransform()
			n.updateTransformTree()
		}
	}
	if n.boundsID != n.lastBoundsID {
		n.calculateBounds()
		n.lastBoundsID = n.boundsID
	}
	return n.bounds.Rectangle()
}

// GetLocalBounds returns the node's bounds in its own coordinate space,
// independent of position, scale, rotation, and parent. The node's transform
// and parent are swapped out for the computation and restored on every exit
// path.
func (n *Node) GetLocalBounds() Rect {
	savedTransform := n.Transform
	savedParent := n.Parent
	savedBounds := n.bounds
	savedLastID := n.lastBoundsID

	n.Parent = nil
	n.Transform = NewTransform()
	defer func() {
		n.Transform = savedTransform
		n.Parent = savedParent
		n.bounds = savedBounds
		n.lastBoundsID = savedLastID
		// Children were recomputed against the identity transform; force a
		// world refresh before the next real query.
		markSubtreeDirty(n)
	}()

	return n.GetBounds(false)
}

// calculateBounds rebuilds the node's bounds accumulator: its own geometry
// plus the bounds of visible, renderable children. A child's mask clips its
// contribution; a child's FilterArea clamps it.
func (n *Node) calculateBounds() {
	n.bounds.Reset()
	n.calculateOwnBounds()
	for _, child := range n.children {
		if !child.Visible || !child.Renderable {
			continue
		}
		child.calculateBounds()
		switch {
		case child.mask != nil:
			child.mask.calculateBounds()
			n.bounds.AddBoundsMask(child.bounds, child.mask.bounds)
		case child.FilterArea != nil:
			n.bounds.AddBoundsArea(child.bounds, *child.FilterArea)
		default:
			n.bounds.AddBounds(child.bounds)
		}
	}
}

// calculateOwnBounds accumulates the node's own geometry. Containers have
// none; sprites contribute their anchored frame under the world transform.
func (n *Node) calculateOwnBounds() {
	switch n.Type {
	case NodeTypeSprite:
		if n.FrameW == 0 && n.FrameH == 0 {
			return
		}
		x0 := -n.AnchorX * n.FrameW
		y0 := -n.AnchorY * n.FrameH
		n.bounds.AddFrame(n.Transform.worldMatrix, x0, y0, x0+n.FrameW, y0+n.FrameH)
	}
}

// --- Coordinate conversion ---

// ToGlobal converts a point from this node's local space to world space.
// Ancestor transforms are refreshed first unless skipUpdate is true.
func (n *Node) ToGlobal(p Vec2, skipUpdate bool) Vec2 {
	if !skipUpdate {
		n.recursivePostUpdateTransform()
		if n.Parent == nil {
			n.Parent = sentinelRoot
			n.UpdateTransform()
			n.Parent = nil
		} else {
			n.UpdateTransform()
		}
	}
	return n.Transform.worldMatrix.Apply(p)
}

// ToLocal converts a point to this node's local space. The point is in world
// space, or in from's local space when from is non-nil. Ancestor transforms
// are refreshed first unless skipUpdate is true.
//
// Returns ErrDegenerateTransform when the node's world matrix is not
// invertible (e.g. a zero scale in the ancestor chain); no fallback value is
// substituted.
func (n *Node) ToLocal(p Vec2, from *Node, skipUpdate bool) (Vec2, error) {
	if from != nil {
		p = from.ToGlobal(p, skipUpdate)
	}
	if !skipUpdate {
		n.recursivePostUpdateTransform()
		if n.Parent == nil {
			n.Parent = sentinelRoot
			n.UpdateTransform()
			n.Parent = nil
		} else {
			n.UpdateTransform()
		}
	}
	return n.Transform.worldMatrix.ApplyInverse(p)
}
