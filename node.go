package banyan

import (
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
)

// nodeIDCounter is a plain counter (no atomic — banyan is single-threaded).
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// Node is the fundamental scene graph element. A single flat struct is used
// for all node types to avoid interface dispatch on the hot path.
//
// Exported fields may be written directly for bulk setup, but only the
// property setters raise the change signal and keep the transform cache
// coherent. After direct field writes, call Invalidate.
type Node struct {
	// Identity
	ID   uint32
	Name string
	Type NodeType

	// Hierarchy. Parent is a non-owning back-reference: it never outlives
	// the parent and is cleared on detach and on Destroy.
	Parent   *Node
	children []*Node

	// Transform is exclusively owned by this node.
	Transform Transform

	// Visibility
	Alpha      float64
	Visible    bool
	Renderable bool

	// worldAlpha is this node's alpha multiplied down the ancestor chain.
	// Valid only immediately after a transform update walked through this
	// node; it is never recomputed lazily.
	worldAlpha float64

	// Ordering
	ZIndex          int
	lastSortedIndex int // stable-sort tiebreak, written by the parent during SortChildren

	// Masking
	mask      *Node // not owned; at most one consumer relationship at a time
	isMask    bool
	maskOwner *Node // the current consumer when this node is a mask (last writer)

	// Filters
	Filters    []Filter
	FilterArea *Rect

	// Bounds cache. boundsID is bumped on every transform update; bounds
	// are recomputed only when lastBoundsID falls behind.
	bounds       Bounds
	boundsID     int
	lastBoundsID int

	// Sprite fields (NodeTypeSprite)
	Texture          *ebiten.Image
	FrameW, FrameH   float64
	AnchorX, AnchorY float64

	// Internal
	onChange       func()
	destroyed      bool
	childrenSorted bool
}

// nodeDefaults sets the common default field values shared by all constructors.
func nodeDefaults(n *Node) {
	n.ID = nextNodeID()
	n.Transform = NewTransform()
	n.Alpha = 1
	n.worldAlpha = 1
	n.Visible = true
	n.Renderable = true
	n.lastBoundsID = -1 // first bounds query always recomputes
	n.childrenSorted = true
}

// NewContainer creates a container node with no geometry of its own.
func NewContainer(name string) *Node {
	n := &Node{Name: name, Type: NodeTypeContainer}
	nodeDefaults(n)
	return n
}

// NewSprite creates a sprite node rendering the given texture. The frame size
// is taken from the texture; pass nil and set FrameW/FrameH for an untextured
// placeholder (useful for layout and bounds work before assets exist).
func NewSprite(name string, texture *ebiten.Image) *Node {
	n := &Node{Name: name, Type: NodeTypeSprite, Texture: texture}
	nodeDefaults(n)
	if texture != nil {
		b := texture.Bounds()
		n.FrameW = float64(b.Dx())
		n.FrameH = float64(b.Dy())
	}
	return n
}

// --- Change signal ---

// SetChangeCallback installs a repaint-hint callback on this node and its
// whole subtree. Property setters and structural mutations invoke it once per
// mutation. Children attached later inherit the callback at attach time if
// they have none of their own.
func (n *Node) SetChangeCallback(fn func()) {
	n.onChange = fn
	for _, child := range n.children {
		child.SetChangeCallback(fn)
	}
}

// changed raises the coarse "something changed, please repaint" signal.
func (n *Node) changed() {
	if n.onChange != nil {
		n.onChange()
	}
}

// mutable reports whether the node may still be mutated. Mutating a destroyed
// node is a silent no-op in release mode and panics in debug mode.
func (n *Node) mutable(op string) bool {
	if !n.destroyed {
		return true
	}
	if globalDebug {
		debugPanicDestroyed(n, op)
	}
	return false
}

// --- Tree manipulation ---

// AddChild appends child to this node's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("banyan: cannot add nil child")
	}
	if !n.mutable("AddChild (parent)") || !child.mutable("AddChild (child)") {
		return
	}
	if isAncestor(child, n) {
		panic("banyan: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
	n.childrenSorted = false
	if child.onChange == nil {
		child.SetChangeCallback(n.onChange)
	}
	markSubtreeDirty(child)
	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
	n.changed()
}

// AddChildAt inserts child at the given index.
// Same reparenting and cycle-check behavior as AddChild.
func (n *Node) AddChildAt(child *Node, index int) {
	if child == nil {
		panic("banyan: cannot add nil child")
	}
	if !n.mutable("AddChildAt (parent)") || !child.mutable("AddChildAt (child)") {
		return
	}
	if isAncestor(child, n) {
		panic("banyan: adding child would create a cycle")
	}
	if index < 0 || index > len(n.children) {
		panic("banyan: child index out of range")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, nil)
	copy(n.children[index+1:], n.children[index:])
	n.children[index] = child
	n.childrenSorted = false
	if child.onChange == nil {
		child.SetChangeCallback(n.onChange)
	}
	markSubtreeDirty(child)
	n.changed()
}

// RemoveChild detaches child from this node.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		panic("banyan: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
	n.childrenSorted = false
	markSubtreeDirty(child)
	n.changed()
}

// RemoveChildAt removes and returns the child at the given index.
func (n *Node) RemoveChildAt(index int) *Node {
	if index < 0 || index >= len(n.children) {
		panic("banyan: child index out of range")
	}
	child := n.children[index]
	copy(n.children[index:], n.children[index+1:])
	n.children[len(n.children)-1] = nil
	n.children = n.children[:len(n.children)-1]
	child.Parent = nil
	n.childrenSorted = false
	markSubtreeDirty(child)
	n.changed()
	return child
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// RemoveChildren detaches all children from this node.
// Children are NOT destroyed.
func (n *Node) RemoveChildren() {
	for _, child := range n.children {
		child.Parent = nil
		markSubtreeDirty(child)
	}
	n.children = n.children[:0]
	n.childrenSorted = true
	n.changed()
}

// Children returns the child list. The returned slice MUST NOT be mutated by
// the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at the given index.
func (n *Node) ChildAt(index int) *Node {
	return n.children[index]
}

// SetChildIndex moves child to a new index among its siblings.
func (n *Node) SetChildIndex(child *Node, index int) {
	if child.Parent != n {
		panic("banyan: child's parent is not this node")
	}
	nc := len(n.children)
	if index < 0 || index >= nc {
		panic("banyan: child index out of range")
	}
	oldIndex := -1
	for i, c := range n.children {
		if c == child {
			oldIndex = i
			break
		}
	}
	if oldIndex == index {
		return
	}
	// Shift elements to fill the gap and open the target slot.
	if oldIndex < index {
		copy(n.children[oldIndex:], n.children[oldIndex+1:index+1])
	} else {
		copy(n.children[index+1:], n.children[index:oldIndex])
	}
	n.children[index] = child
	n.childrenSorted = false
	n.changed()
}

// --- Ordering ---

// SetZIndex sets the node's ZIndex and marks the parent's children as
// unsorted.
func (n *Node) SetZIndex(z int) {
	if !n.mutable("SetZIndex") || n.ZIndex == z {
		return
	}
	n.ZIndex = z
	if n.Parent != nil {
		n.Parent.childrenSorted = false
	}
	n.changed()
}

// SortChildren reorders the child list by ascending ZIndex. The sort is
// stable: children with equal ZIndex keep their insertion order, using
// lastSortedIndex (recorded here) as the tiebreak. No-op when the list is
// already sorted.
func (n *Node) SortChildren() {
	if n.childrenSorted {
		return
	}
	for i, c := range n.children {
		c.lastSortedIndex = i
	}
	sort.Slice(n.children, func(i, j int) bool {
		a, b := n.children[i], n.children[j]
		if a.ZIndex != b.ZIndex {
			return a.ZIndex < b.ZIndex
		}
		return a.lastSortedIndex < b.lastSortedIndex
	})
	n.childrenSorted = true
}

// --- Property setters ---
// Each setter is a no-op when the value is unchanged; otherwise it marks the
// transform dirty and raises the change signal.

// SetPosition sets the node's local position.
func (n *Node) SetPosition(x, y float64) {
	if !n.mutable("SetPosition") {
		return
	}
	if n.Transform.SetPosition(x, y) {
		n.changed()
	}
}

// SetScale sets the node's local scale factors.
func (n *Node) SetScale(sx, sy float64) {
	if !n.mutable("SetScale") {
		return
	}
	if n.Transform.SetScale(sx, sy) {
		n.changed()
	}
}

// SetRotation sets the node's rotation in radians.
func (n *Node) SetRotation(r float64) {
	if !n.mutable("SetRotation") {
		return
	}
	if n.Transform.SetRotation(r) {
		n.changed()
	}
}

// SetSkew sets the node's skew angles in radians.
func (n *Node) SetSkew(sx, sy float64) {
	if !n.mutable("SetSkew") {
		return
	}
	if n.Transform.SetSkew(sx, sy) {
		n.changed()
	}
}

// SetPivot sets the node's pivot point.
func (n *Node) SetPivot(px, py float64) {
	if !n.mutable("SetPivot") {
		return
	}
	if n.Transform.SetPivot(px, py) {
		n.changed()
	}
}

// SetAlpha sets the node's local opacity in [0, 1].
func (n *Node) SetAlpha(a float64) {
	if !n.mutable("SetAlpha") || n.Alpha == a {
		return
	}
	n.Alpha = a
	n.changed()
}

// SetVisible sets whether the node and its subtree participate in transform
// updates, bounds, and rendering.
func (n *Node) SetVisible(v bool) {
	if !n.mutable("SetVisible") || n.Visible == v {
		return
	}
	n.Visible = v
	n.changed()
}

// WorldAlpha returns the node's alpha multiplied down the ancestor chain, as
// of the last transform update through this node.
func (n *Node) WorldAlpha() float64 {
	return n.worldAlpha
}

// Invalidate marks the node's transform as changed, forcing recomputation on
// the next update. Useful after bulk-setting exported fields directly.
func (n *Node) Invalidate() {
	n.Transform.localVersion++
	n.changed()
}

// --- Masking ---

// SetMask sets a mask node for this node. The mask node stops rendering on
// its own (Renderable becomes false, IsMask true) until the mask is cleared.
// A mask node serves one consumer at a time: setting the same node as the
// mask of a second consumer silently transfers it (last writer wins), and the
// first consumer's ClearMask then becomes a no-op for the mask node's flags.
func (n *Node) SetMask(m *Node) {
	if !n.mutable("SetMask") || n.mask == m {
		return
	}
	if n.mask != nil && n.mask.maskOwner == n {
		n.mask.Renderable = true
		n.mask.isMask = false
		n.mask.maskOwner = nil
	}
	n.mask = m
	if m != nil {
		m.Renderable = false
		m.isMask = true
		m.maskOwner = n
	}
	n.changed()
}

// ClearMask removes the mask from this node. Safe to call redundantly.
func (n *Node) ClearMask() {
	n.SetMask(nil)
}

// Mask returns the current mask node, or nil if no mask is set.
func (n *Node) Mask() *Node {
	return n.mask
}

// IsMask reports whether this node is currently consumed as a mask.
func (n *Node) IsMask() bool {
	return n.isMask
}

// --- Destruction ---

// Destroy removes this node from its parent, releases its references, marks
// it destroyed, and recursively destroys all descendants. A destroyed node
// must not be used again: mutations become no-ops (panics in debug mode).
func (n *Node) Destroy() {
	if n.destroyed {
		return
	}
	n.RemoveFromParent()
	n.destroy()
}

func (n *Node) destroy() {
	n.destroyed = true
	n.ID = 0
	for _, child := range n.children {
		child.Parent = nil
		child.destroy()
	}
	n.children = nil
	n.Parent = nil
	if n.mask != nil {
		if n.mask.maskOwner == n {
			n.mask.Renderable = true
			n.mask.isMask = false
			n.mask.maskOwner = nil
		}
		n.mask = nil
	}
	n.Filters = nil
	n.FilterArea = nil
	n.Texture = nil
	n.onChange = nil
}

// IsDestroyed reports whether this node has been destroyed.
func (n *Node) IsDestroyed() bool {
	return n.destroyed
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing
// child.Parent. Uses copy+nil to avoid retaining a dangling pointer in the
// backing array.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

// markSubtreeDirty forces world-matrix recomputation for node and all its
// descendants on the next update. Called after reparenting, because version
// counters cannot distinguish one parent from another.
func markSubtreeDirty(node *Node) {
	node.Transform.invalidateWorld()
	for _, child := range node.children {
		markSubtreeDirty(child)
	}
}
