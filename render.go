package banyan

import "github.com/hajimehoshi/ebiten/v2"

// NodeDrawer draws a single node to dst. Drawers attach to the node-drawer
// extension point keyed by node type name, so backends and plugins can teach
// the pipeline about new node types without the core knowing them.
type NodeDrawer func(r *Renderer, n *Node, dst *ebiten.Image)

// RenderStage is one pass of a composed pipeline, run over the whole tree.
// Stages attach to the render-stage extension point and run in descending
// priority order. When no stages are registered the renderer falls back to a
// single tree-walk pass.
type RenderStage func(r *Renderer, root *Node, dst *ebiten.Image)

// Renderer composes a render pipeline out of registry extension points:
// node drawers (by type name), render stages (priority ordered), and named
// shared filters. Extensions registered before the Renderer exists are
// delivered from the pending queues at construction; extensions added later
// arrive live.
type Renderer struct {
	registry *Registry
	drawers  map[string]NodeDrawer
	stages   []NamedEntry[RenderStage]
	filters  []NamedEntry[Filter]
}

// NewRenderer creates a renderer composed from the given registry, or from
// the process-wide Extensions registry when reg is nil. The renderer claims
// the node-drawer, render-stage, and filter extension points; each registry
// therefore feeds at most one Renderer for its lifetime.
func NewRenderer(reg *Registry) *Renderer {
	if reg == nil {
		reg = Extensions
	}
	r := &Renderer{
		registry: reg,
		drawers:  make(map[string]NodeDrawer),
	}
	HandleByMap(reg, ExtensionNodeDrawer, r.drawers)
	HandleByNamedList(reg, ExtensionRenderStage, &r.stages, DefaultPriority)
	HandleByNamedList(reg, ExtensionFilter, &r.filters, DefaultPriority)
	return r
}

// Registry returns the registry this renderer composed itself from.
func (r *Renderer) Registry() *Registry {
	return r.registry
}

// Filter returns the registered shared filter with the given name, or nil.
func (r *Renderer) Filter(name string) Filter {
	for _, e := range r.filters {
		if e.Name == name {
			return e.Value
		}
	}
	return nil
}

// Draw refreshes the tree's transforms and renders it to dst through the
// composed pipeline stages, or through the default tree walk when no stage
// is registered.
func (r *Renderer) Draw(root *Node, dst *ebiten.Image) {
	if root.Parent != nil {
		root.Parent.recursivePostUpdateTransform()
	}
	root.UpdateTransformTree()

	if len(r.stages) > 0 {
		for _, stage := range r.stages {
			stage.Value(r, root, dst)
		}
		return
	}
	r.DrawTree(root, dst)
}

// DrawTree renders a subtree depth-first in child-sorted order, without
// refreshing transforms. Stages use this as their drawing primitive.
func (r *Renderer) DrawTree(n *Node, dst *ebiten.Image) {
	if !n.Visible || n.isMask || n.worldAlpha <= 0 {
		return
	}
	if n.mask != nil {
		r.drawMasked(n, dst)
		return
	}
	if n.Renderable {
		if drawer, ok := r.drawers[n.Type.String()]; ok {
			drawer(r, n, dst)
		}
	}
	n.SortChildren()
	for _, child := range n.children {
		r.DrawTree(child, dst)
	}
}

// drawMasked renders a masked subtree to an offscreen image, clips it to the
// mask node's alpha, and composites the result.
func (r *Renderer) drawMasked(n *Node, dst *ebiten.Image) {
	if dst == nil {
		return
	}
	w := dst.Bounds().Dx()
	h := dst.Bounds().Dy()

	content := ebiten.NewImage(w, h)
	defer content.Deallocate()
	mask := n.mask
	n.mask = nil
	r.DrawTree(n, content)
	n.mask = mask

	// Render the mask node itself, lifting the flags that normally keep it
	// out of the walk.
	maskImg := ebiten.NewImage(w, h)
	defer maskImg.Deallocate()
	mask.isMask = false
	mask.Renderable = true
	r.DrawTree(mask, maskImg)
	mask.isMask = true
	mask.Renderable = false

	clip := &ebiten.DrawImageOptions{}
	clip.Blend = ebiten.BlendDestinationIn
	content.DrawImage(maskImg, clip)
	dst.DrawImage(content, &ebiten.DrawImageOptions{})
}

// drawSprite is the built-in drawer for sprite nodes, registered with the
// process-wide Extensions registry at startup.
func drawSprite(r *Renderer, n *Node, dst *ebiten.Image) {
	if n.Texture == nil || dst == nil {
		return
	}
	src := n.Texture
	if len(n.Filters) > 0 {
		src = applyFilters(n.Texture, n.Filters)
		defer src.Deallocate()
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-n.AnchorX*n.FrameW, -n.AnchorY*n.FrameH)
	op.GeoM.Concat(geoM(n.Transform.worldMatrix))
	op.ColorScale.ScaleAlpha(float32(n.worldAlpha))
	dst.DrawImage(src, op)
}

// applyFilters chains a node's filters through offscreen images, growing each
// step by the filter's padding. Returns a new image the caller must
// deallocate.
func applyFilters(src *ebiten.Image, filters []Filter) *ebiten.Image {
	cur := src
	for _, f := range filters {
		p := f.Padding()
		b := cur.Bounds()
		out := ebiten.NewImage(b.Dx()+2*p, b.Dy()+2*p)
		f.Apply(cur, out)
		if cur != src {
			cur.Deallocate()
		}
		cur = out
	}
	return cur
}

// geoM converts a Matrix to an ebiten.GeoM.
func geoM(m Matrix) ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m.A)
	g.SetElement(0, 1, m.C)
	g.SetElement(0, 2, m.TX)
	g.SetElement(1, 0, m.B)
	g.SetElement(1, 1, m.D)
	g.SetElement(1, 2, m.TY)
	return g
}

func init() {
	Extensions.Add(Extension{
		Type: []ExtensionType{ExtensionNodeDrawer},
		Name: NodeTypeSprite.String(),
		Ref:  NodeDrawer(drawSprite),
	})
}
