package banyan

import (
	"testing"
)

func ext(name string, priority int, ref any, types ...ExtensionType) Extension {
	return Extension{Type: types, Name: name, Priority: priority, Ref: ref}
}

const testPoint ExtensionType = "test-point"

// --- Queue-before-handler semantics ---

func TestHandleDrainsQueueInFIFOOrder(t *testing.T) {
	reg := NewRegistry()
	reg.Add(ext("a", 0, "a", testPoint))
	reg.Add(ext("b", 0, "b", testPoint))

	var got []string
	reg.Handle(testPoint, func(e Extension) { got = append(got, e.Name) }, nil)

	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("drain order = %v, want [a b]", got)
	}
}

func TestAddAfterHandleDeliversImmediately(t *testing.T) {
	reg := NewRegistry()
	var got []string
	reg.Handle(testPoint, func(e Extension) { got = append(got, e.Name) }, nil)

	reg.Add(ext("live", 0, "x", testPoint))
	if len(got) != 1 || got[0] != "live" {
		t.Errorf("got %v, want [live]", got)
	}
}

func TestQueueDiscardedAfterDrain(t *testing.T) {
	reg := NewRegistry()
	reg.Add(ext("a", 0, "a", testPoint))

	calls := 0
	reg.Handle(testPoint, func(Extension) { calls++ }, nil)
	if calls != 1 {
		t.Fatalf("drain calls = %d, want 1", calls)
	}
	if len(reg.queues[testPoint]) != 0 {
		t.Error("queue should be discarded after drain")
	}
}

func TestHandleTwicePanics(t *testing.T) {
	reg := NewRegistry()
	reg.Handle(testPoint, func(Extension) {}, nil)
	expectPanic(t, "double handle", func() {
		reg.Handle(testPoint, func(Extension) {}, nil)
	})
}

func TestHandleNilAddPanics(t *testing.T) {
	reg := NewRegistry()
	expectPanic(t, "nil onAdd", func() { reg.Handle(testPoint, nil, nil) })
}

// --- Normalization ---

type providerExt struct{ name string }

func (p *providerExt) Extension() Extension {
	return Extension{Type: []ExtensionType{testPoint}, Name: p.name}
}

func TestAddAcceptsProvider(t *testing.T) {
	reg := NewRegistry()
	var got Extension
	reg.Handle(testPoint, func(e Extension) { got = e }, nil)

	p := &providerExt{name: "prov"}
	reg.Add(p)
	if got.Name != "prov" {
		t.Errorf("Name = %q, want prov", got.Name)
	}
	if got.Ref != any(p) {
		t.Error("a provider with nil Ref should register itself as the implementation")
	}
}

func TestAddAcceptsPointerDescriptor(t *testing.T) {
	reg := NewRegistry()
	var got Extension
	reg.Handle(testPoint, func(e Extension) { got = e }, nil)

	d := ext("ptr", 0, "v", testPoint)
	reg.Add(&d)
	if got.Name != "ptr" || got.Ref != any("v") {
		t.Errorf("pointer descriptor not normalized: %+v", got)
	}
}

func TestAddInvalidShapePanics(t *testing.T) {
	reg := NewRegistry()
	expectPanic(t, "invalid shape", func() { reg.Add(42) })
}

func TestAddEmptyTypesPanics(t *testing.T) {
	reg := NewRegistry()
	expectPanic(t, "no types", func() { reg.Add(Extension{Name: "x", Ref: "x"}) })
}

func TestAddMultiPointExtension(t *testing.T) {
	reg := NewRegistry()
	const other ExtensionType = "other-point"

	var a, b int
	reg.Handle(testPoint, func(Extension) { a++ }, nil)
	reg.Handle(other, func(Extension) { b++ }, nil)

	reg.Add(ext("multi", 0, "x", testPoint, other))
	if a != 1 || b != 1 {
		t.Errorf("multi-point delivery = (%d, %d), want (1, 1)", a, b)
	}
}

// --- Remove ---

func TestRemoveInvokesHandler(t *testing.T) {
	reg := NewRegistry()
	var removed []string
	reg.Handle(testPoint, func(Extension) {}, func(e Extension) { removed = append(removed, e.Name) })

	reg.Add(ext("a", 0, "a", testPoint))
	reg.Remove(ext("a", 0, "a", testPoint))
	if len(removed) != 1 || removed[0] != "a" {
		t.Errorf("removed = %v, want [a]", removed)
	}
}

func TestRemoveNeverAddedIsNoOp(t *testing.T) {
	reg := NewRegistry()
	target := map[string]string{}
	HandleByMap(reg, testPoint, target)
	reg.Remove(ext("ghost", 0, "x", testPoint)) // must not panic
	if len(target) != 0 {
		t.Error("removing a never-added extension should change nothing")
	}
}

func TestRemoveWithoutHandlerIsNoOp(t *testing.T) {
	reg := NewRegistry()
	reg.Remove(ext("a", 0, "a", testPoint)) // must not panic
}

// --- HandleByMap ---

func TestHandleByMapStoresByName(t *testing.T) {
	reg := NewRegistry()
	target := map[string]string{}
	HandleByMap(reg, testPoint, target)

	reg.Add(ext("a", 0, "va", testPoint))
	reg.Add(ext("b", 0, "vb", testPoint))
	if target["a"] != "va" || target["b"] != "vb" {
		t.Errorf("map = %v", target)
	}
}

func TestHandleByMapLastRegistrationWins(t *testing.T) {
	reg := NewRegistry()
	target := map[string]string{}
	HandleByMap(reg, testPoint, target)

	reg.Add(ext("a", 0, "first", testPoint))
	reg.Add(ext("a", 0, "second", testPoint))
	if target["a"] != "second" {
		t.Errorf("target[a] = %q, want second", target["a"])
	}
}

func TestHandleByMapRemoveDeletesKey(t *testing.T) {
	reg := NewRegistry()
	target := map[string]string{}
	HandleByMap(reg, testPoint, target)

	reg.Add(ext("a", 0, "va", testPoint))
	reg.Remove(ext("a", 0, "va", testPoint))
	if _, ok := target["a"]; ok {
		t.Error("remove should delete the key")
	}
}

func TestHandleByMapWrongRefTypePanics(t *testing.T) {
	reg := NewRegistry()
	target := map[string]string{}
	HandleByMap(reg, testPoint, target)
	expectPanic(t, "wrong ref type", func() { reg.Add(ext("a", 0, 123, testPoint)) })
}

// --- HandleByList ---

func TestHandleByListPriorityOrder(t *testing.T) {
	reg := NewRegistry()
	var list []string
	HandleByList(reg, testPoint, &list, DefaultPriority)

	reg.Add(ext("five", 5, "five", testPoint))
	reg.Add(ext("neg", -1, "neg", testPoint))
	reg.Add(ext("ten", 10, "ten", testPoint))

	want := []string{"ten", "five", "neg"}
	for i, w := range want {
		if list[i] != w {
			t.Fatalf("list = %v, want %v", list, want)
		}
	}
}

func TestHandleByListEqualPriorityKeepsInsertionOrder(t *testing.T) {
	reg := NewRegistry()
	var list []string
	HandleByList(reg, testPoint, &list, DefaultPriority)

	reg.Add(ext("a", 2, "a", testPoint))
	reg.Add(ext("b", 2, "b", testPoint))
	reg.Add(ext("c", 2, "c", testPoint))

	want := []string{"a", "b", "c"}
	for i, w := range want {
		if list[i] != w {
			t.Fatalf("list = %v, want %v", list, want)
		}
	}
}

func TestHandleByListUnspecifiedPriorityUsesDefault(t *testing.T) {
	reg := NewRegistry()
	var list []string
	HandleByList(reg, testPoint, &list, 100)

	reg.Add(ext("low", 5, "low", testPoint))
	reg.Add(ext("def", 0, "def", testPoint)) // unspecified -> 100
	if list[0] != "def" || list[1] != "low" {
		t.Errorf("list = %v, want [def low]", list)
	}
}

func TestHandleByListDeduplicatesByIdentity(t *testing.T) {
	reg := NewRegistry()
	var list []string
	HandleByList(reg, testPoint, &list, DefaultPriority)

	reg.Add(ext("a", 0, "same", testPoint))
	reg.Add(ext("b", 0, "same", testPoint))
	if len(list) != 1 {
		t.Errorf("list = %v, want a single entry", list)
	}
}

func TestHandleByListRemoveByIdentity(t *testing.T) {
	reg := NewRegistry()
	var list []string
	HandleByList(reg, testPoint, &list, DefaultPriority)

	reg.Add(ext("a", 0, "a", testPoint))
	reg.Add(ext("b", 0, "b", testPoint))
	reg.Remove(ext("a", 0, "a", testPoint))
	if len(list) != 1 || list[0] != "b" {
		t.Errorf("list = %v, want [b]", list)
	}
}

func TestHandleByListDrainsQueueSorted(t *testing.T) {
	reg := NewRegistry()
	reg.Add(ext("neg", -1, "neg", testPoint))
	reg.Add(ext("ten", 10, "ten", testPoint))

	var list []string
	HandleByList(reg, testPoint, &list, DefaultPriority)
	if list[0] != "ten" || list[1] != "neg" {
		t.Errorf("list = %v, want [ten neg]", list)
	}
}

// --- HandleByNamedList ---

func TestHandleByNamedListOrderAndDedup(t *testing.T) {
	reg := NewRegistry()
	var list []NamedEntry[func()]
	HandleByNamedList(reg, testPoint, &list, DefaultPriority)

	f := func() {}
	reg.Add(ext("a", 1, f, testPoint))
	reg.Add(ext("b", 5, f, testPoint))
	reg.Add(ext("a", 9, f, testPoint)) // duplicate name, ignored

	if len(list) != 2 || list[0].Name != "b" || list[1].Name != "a" {
		t.Errorf("named list order wrong: %+v", list)
	}
}

func TestHandleByNamedListRemoveByName(t *testing.T) {
	reg := NewRegistry()
	var list []NamedEntry[string]
	HandleByNamedList(reg, testPoint, &list, DefaultPriority)

	reg.Add(ext("a", 0, "va", testPoint))
	reg.Add(ext("b", 0, "vb", testPoint))
	reg.Remove(ext("a", 0, "", testPoint))
	if len(list) != 1 || list[0].Name != "b" {
		t.Errorf("list = %+v, want [b]", list)
	}
}
