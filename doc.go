// Package banyan is the scene-graph and extensibility core of a retained-mode
// 2D rendering engine for [Ebitengine].
//
// Banyan provides the node tree with hierarchical transforms, lazy
// world-bounds caching, coordinate-space conversion, and a process-wide
// extension registry through which rendering backends, pipeline stages, and
// filters attach themselves without the core knowing about them at compile
// time.
//
// # Scene graph
//
// Every element is a [Node]. Nodes form a tree; children inherit their
// parent's transform and alpha. Create nodes with the typed constructors
// [NewContainer] and [NewSprite], mutate them through the property setters,
// and query world-space state with [Node.GetBounds], [Node.ToGlobal], and
// [Node.ToLocal]:
//
//	root := banyan.NewContainer("root")
//	child := banyan.NewSprite("hero", heroTexture)
//	child.SetPosition(10, 0)
//	root.AddChild(child)
//
//	world := child.ToGlobal(banyan.Vec2{}, false)
//
// Transform and bounds recomputation is lazy: property setters only mark
// state dirty, and the engine recomputes exactly what is stale when a frame
// update or an on-demand query walks the tree. Detached nodes borrow a shared
// sentinel root, so world-space queries work identically with or without a
// parent.
//
// # Extensions
//
// The process-wide [Extensions] registry maps extension points to the single
// component that claims each point via [Registry.Handle] (or the
// [HandleByMap], [HandleByList], and [HandleByNamedList] wrappers). Plugins
// call [Registry.Add] from init funcs; registration and claiming may happen
// in either order, because records queue until the point is claimed:
//
//	banyan.Extensions.Add(banyan.Extension{
//		Type: []banyan.ExtensionType{banyan.ExtensionFilter},
//		Name: "dim",
//		Ref:  banyan.NewColorScaleFilter(0.5, 0.5, 0.5, 1),
//	})
//
// [NewRenderer] composes the render pipeline from these points. [Scene] ties
// a tree and a renderer together for use from an [ebiten.Game]:
//
//	type Game struct{ scene *banyan.Scene }
//
//	func (g *Game) Update() error              { g.scene.Update(); return nil }
//	func (g *Game) Draw(screen *ebiten.Image)  { g.scene.Draw(screen) }
//	func (g *Game) Layout(w, h int) (int, int) { return w, h }
//
// All scene-graph and registry operations follow a single-threaded,
// synchronous execution model; callers needing multi-threaded access must
// impose external synchronization.
//
// [Ebitengine]: https://ebitengine.org
package banyan
