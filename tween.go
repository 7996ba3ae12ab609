package banyan

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 float64 properties on a Node simultaneously.
// Create one via the convenience constructors (TweenPosition, TweenScale,
// TweenAlpha, TweenRotation) and call Update(dt) each frame. Values are
// applied through the node's property setters, so the change signal fires as
// the tween runs. If the target node is destroyed, the group stops
// immediately.
//
// There is no global animation manager — users call Update themselves.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	target *Node
	apply  func(n *Node, v [4]float64)
	Done   bool
}

// Update advances all tweens by dt seconds and applies the values to the
// target node. If the target has been destroyed, Done is set to true and no
// writes occur.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if g.target == nil || g.target.IsDestroyed() {
		g.Done = true
		return
	}

	var values [4]float64
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		values[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
	g.apply(g.target, values)
}

// TweenPosition creates a TweenGroup that animates the node's position to the
// given target coordinates over the specified duration using the easing
// function.
func TweenPosition(node *Node, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	from := node.Transform.Position()
	g := &TweenGroup{count: 2, target: node}
	g.tweens[0] = gween.New(float32(from.X), float32(toX), duration, fn)
	g.tweens[1] = gween.New(float32(from.Y), float32(toY), duration, fn)
	g.apply = func(n *Node, v [4]float64) { n.SetPosition(v[0], v[1]) }
	return g
}

// TweenScale creates a TweenGroup that animates the node's scale factors to
// the given target values over the specified duration using the easing
// function.
func TweenScale(node *Node, toSX, toSY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	from := node.Transform.Scale()
	g := &TweenGroup{count: 2, target: node}
	g.tweens[0] = gween.New(float32(from.X), float32(toSX), duration, fn)
	g.tweens[1] = gween.New(float32(from.Y), float32(toSY), duration, fn)
	g.apply = func(n *Node, v [4]float64) { n.SetScale(v[0], v[1]) }
	return g
}

// TweenAlpha creates a TweenGroup that animates the node's opacity to the
// given target value over the specified duration using the easing function.
func TweenAlpha(node *Node, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 1, target: node}
	g.tweens[0] = gween.New(float32(node.Alpha), float32(to), duration, fn)
	g.apply = func(n *Node, v [4]float64) { n.SetAlpha(v[0]) }
	return g
}

// TweenRotation creates a TweenGroup that animates the node's rotation to the
// given angle (radians) over the specified duration using the easing
// function.
func TweenRotation(node *Node, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 1, target: node}
	g.tweens[0] = gween.New(float32(node.Transform.Rotation()), float32(to), duration, fn)
	g.apply = func(n *Node, v [4]float64) { n.SetRotation(v[0]) }
	return g
}
