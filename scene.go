package banyan

import "github.com/hajimehoshi/ebiten/v2"

// Scene is the top-level object that owns the node tree and the renderer,
// and carries the host's repaint hint.
type Scene struct {
	root     *Node
	renderer *Renderer
	debug    bool
}

// NewScene creates a new scene with a pre-created root container. The
// renderer composes itself from the given registry, or from the process-wide
// Extensions registry when reg is nil.
func NewScene(reg *Registry) *Scene {
	return &Scene{
		root:     NewContainer("root"),
		renderer: NewRenderer(reg),
	}
}

// Root returns the scene's root container node.
func (s *Scene) Root() *Node {
	return s.root
}

// Renderer returns the scene's composed renderer.
func (s *Scene) Renderer() *Renderer {
	return s.renderer
}

// SetChangeCallback installs a coarse "something changed, please repaint"
// callback on the whole tree. Host loops that skip redraws on idle frames set
// this and repaint when it fires. Nodes added to the tree later inherit it.
func (s *Scene) SetChangeCallback(fn func()) {
	s.root.SetChangeCallback(fn)
}

// Update refreshes world transforms for the whole tree so queries and
// rendering this frame see current state.
func (s *Scene) Update() {
	s.root.UpdateTransformTree()
}

// Draw renders the tree to the given screen image through the renderer's
// composed pipeline.
func (s *Scene) Draw(screen *ebiten.Image) {
	s.renderer.Draw(s.root, screen)
}

// SetDebugMode enables or disables debug mode. When enabled, operations on
// destroyed nodes panic instead of silently no-oping, and tree depth and
// child count warnings are printed to stderr.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
}
