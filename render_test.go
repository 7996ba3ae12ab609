package banyan

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// --- Pipeline composition ---

func TestNewRendererDrainsPreRegisteredDrawers(t *testing.T) {
	reg := NewRegistry()
	reg.Add(Extension{
		Type: []ExtensionType{ExtensionNodeDrawer},
		Name: "custom",
		Ref:  NodeDrawer(func(*Renderer, *Node, *ebiten.Image) {}),
	})

	r := NewRenderer(reg)
	if _, ok := r.drawers["custom"]; !ok {
		t.Error("drawer registered before construction should be delivered from the queue")
	}
}

func TestRendererReceivesLateDrawers(t *testing.T) {
	reg := NewRegistry()
	r := NewRenderer(reg)

	reg.Add(Extension{
		Type: []ExtensionType{ExtensionNodeDrawer},
		Name: "late",
		Ref:  NodeDrawer(func(*Renderer, *Node, *ebiten.Image) {}),
	})
	if _, ok := r.drawers["late"]; !ok {
		t.Error("drawer registered after construction should arrive live")
	}
}

func TestGlobalRegistryProvidesSpriteDrawer(t *testing.T) {
	// The only test allowed to claim the process-wide registry's points.
	r := NewRenderer(nil)
	if r.Registry() != Extensions {
		t.Error("nil registry should resolve to the process-wide Extensions")
	}
	if _, ok := r.drawers[NodeTypeSprite.String()]; !ok {
		t.Error("the built-in sprite drawer should be registered at startup")
	}
}

func TestRendererStagesRunInPriorityOrder(t *testing.T) {
	reg := NewRegistry()
	var order []string
	stage := func(name string) RenderStage {
		return func(*Renderer, *Node, *ebiten.Image) { order = append(order, name) }
	}
	reg.Add(Extension{
		Type:     []ExtensionType{ExtensionRenderStage},
		Name:     "post",
		Priority: 1,
		Ref:      stage("post"),
	})
	reg.Add(Extension{
		Type:     []ExtensionType{ExtensionRenderStage},
		Name:     "main",
		Priority: 5,
		Ref:      stage("main"),
	})

	r := NewRenderer(reg)
	r.Draw(NewContainer("root"), nil)
	if len(order) != 2 || order[0] != "main" || order[1] != "post" {
		t.Errorf("stage order = %v, want [main post]", order)
	}
}

func TestRendererFilterLookup(t *testing.T) {
	reg := NewRegistry()
	f := NewColorScaleFilter(1, 1, 1, 0.5)
	reg.Add(Extension{
		Type: []ExtensionType{ExtensionFilter},
		Name: "fade",
		Ref:  Filter(f),
	})

	r := NewRenderer(reg)
	if r.Filter("fade") != Filter(f) {
		t.Error("Filter should find the registered entry by name")
	}
	if r.Filter("missing") != nil {
		t.Error("Filter should return nil for unknown names")
	}
}

// --- Tree walk ---

func TestDrawSkipsHiddenSubtrees(t *testing.T) {
	reg := NewRegistry()
	var drawn []string
	reg.Add(Extension{
		Type: []ExtensionType{ExtensionNodeDrawer},
		Name: NodeTypeContainer.String(),
		Ref: NodeDrawer(func(_ *Renderer, n *Node, _ *ebiten.Image) {
			drawn = append(drawn, n.Name)
		}),
	})

	root := NewContainer("root")
	visible := NewContainer("visible")
	hidden := NewContainer("hidden")
	hidden.SetVisible(false)
	flat := NewContainer("flat")
	flat.Renderable = false
	clear := NewContainer("clear")
	clear.SetAlpha(0)
	root.AddChild(visible)
	root.AddChild(hidden)
	root.AddChild(flat)
	root.AddChild(clear)

	r := NewRenderer(reg)
	r.Draw(root, nil)

	want := map[string]bool{"root": true, "visible": true}
	for _, name := range drawn {
		if !want[name] {
			t.Errorf("node %q should not have been drawn", name)
		}
	}
	if len(drawn) != 2 {
		t.Errorf("drawn = %v, want root and visible only", drawn)
	}
}

func TestDrawVisitsChildrenInZIndexOrder(t *testing.T) {
	reg := NewRegistry()
	var drawn []string
	reg.Add(Extension{
		Type: []ExtensionType{ExtensionNodeDrawer},
		Name: NodeTypeContainer.String(),
		Ref: NodeDrawer(func(_ *Renderer, n *Node, _ *ebiten.Image) {
			drawn = append(drawn, n.Name)
		}),
	})

	root := NewContainer("root")
	top := NewContainer("top")
	top.SetZIndex(10)
	bottom := NewContainer("bottom")
	bottom.SetZIndex(-10)
	root.AddChild(top)
	root.AddChild(bottom)

	r := NewRenderer(reg)
	r.Draw(root, nil)

	// bottom draws first so top ends up painted over it.
	if len(drawn) != 3 || drawn[1] != "bottom" || drawn[2] != "top" {
		t.Errorf("drawn = %v, want [root bottom top]", drawn)
	}
}

func TestDrawRefreshesTransforms(t *testing.T) {
	reg := NewRegistry()
	var tx float64
	reg.Add(Extension{
		Type: []ExtensionType{ExtensionNodeDrawer},
		Name: NodeTypeContainer.String(),
		Ref: NodeDrawer(func(_ *Renderer, n *Node, _ *ebiten.Image) {
			if n.Name == "child" {
				tx = n.Transform.WorldMatrix().TX
			}
		}),
	})

	root := NewContainer("root")
	child := NewContainer("child")
	root.AddChild(child)
	root.SetPosition(42, 0)

	r := NewRenderer(reg)
	r.Draw(root, nil)
	assertNear(t, "child world tx at draw time", tx, 42)
}

func TestDrawTreeSkipsMaskNodes(t *testing.T) {
	reg := NewRegistry()
	var drawn []string
	reg.Add(Extension{
		Type: []ExtensionType{ExtensionNodeDrawer},
		Name: NodeTypeContainer.String(),
		Ref: NodeDrawer(func(_ *Renderer, n *Node, _ *ebiten.Image) {
			drawn = append(drawn, n.Name)
		}),
	})

	root := NewContainer("root")
	mask := NewContainer("mask")
	root.AddChild(mask)
	other := NewContainer("other")
	other.SetMask(mask)

	r := NewRenderer(reg)
	r.Draw(root, nil)
	for _, name := range drawn {
		if name == "mask" {
			t.Error("mask nodes must not render in the normal walk")
		}
	}
}

// --- Matrix conversion ---

func TestGeoMMatchesMatrix(t *testing.T) {
	m := Matrix{A: 2, B: 0.5, C: -0.5, D: 3, TX: 10, TY: 20}
	g := geoM(m)
	p := Vec2{X: 7, Y: -4}
	gx, gy := g.Apply(p.X, p.Y)
	want := m.Apply(p)
	assertNear(t, "geoM x", gx, want.X)
	assertNear(t, "geoM y", gy, want.Y)
}
