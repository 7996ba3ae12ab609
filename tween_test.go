package banyan

import (
	"testing"

	"github.com/tanema/gween/ease"
)

func TestTweenPositionReachesTarget(t *testing.T) {
	n := NewContainer("n")
	g := TweenPosition(n, 100, 50, 1.0, ease.Linear)

	g.Update(0.5)
	p := n.Transform.Position()
	assertNear(t, "halfway x", p.X, 50)
	assertNear(t, "halfway y", p.Y, 25)
	if g.Done {
		t.Error("tween should not be done at the halfway point")
	}

	g.Update(0.6)
	p = n.Transform.Position()
	assertNear(t, "final x", p.X, 100)
	assertNear(t, "final y", p.Y, 50)
	if !g.Done {
		t.Error("tween should be done after the full duration")
	}
}

func TestTweenAlphaAppliesThroughSetter(t *testing.T) {
	n := NewContainer("n")
	fired := 0
	n.SetChangeCallback(func() { fired++ })

	g := TweenAlpha(n, 0, 1.0, ease.Linear)
	g.Update(0.25)
	assertNear(t, "alpha", n.Alpha, 0.75)
	if fired == 0 {
		t.Error("tween writes should raise the change signal")
	}
}

func TestTweenScale(t *testing.T) {
	n := NewContainer("n")
	g := TweenScale(n, 3, 5, 1.0, ease.Linear)
	g.Update(1.0)
	s := n.Transform.Scale()
	assertNear(t, "scale x", s.X, 3)
	assertNear(t, "scale y", s.Y, 5)
}

func TestTweenRotation(t *testing.T) {
	n := NewContainer("n")
	g := TweenRotation(n, 1.5, 2.0, ease.Linear)
	g.Update(1.0)
	assertNear(t, "rotation", n.Transform.Rotation(), 0.75)
}

func TestTweenStopsOnDestroyedTarget(t *testing.T) {
	n := NewContainer("n")
	g := TweenPosition(n, 100, 0, 1.0, ease.Linear)
	g.Update(0.25)

	n.Destroy()
	g.Update(0.25)
	if !g.Done {
		t.Error("tween should stop when the target is destroyed")
	}
	if p := n.Transform.Position(); p.X != 25 {
		t.Errorf("destroyed target position = %v, want the last live value 25", p.X)
	}
}

func TestTweenUpdateAfterDoneIsNoOp(t *testing.T) {
	n := NewContainer("n")
	g := TweenAlpha(n, 0.5, 1.0, ease.Linear)
	g.Update(2.0)
	if !g.Done {
		t.Fatal("tween should finish")
	}
	g.Update(1.0) // must not panic or move anything
	assertNear(t, "alpha stays", n.Alpha, 0.5)
}
