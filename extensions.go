package banyan

import (
	"fmt"
	"sort"
	"sync"
)

// ExtensionType identifies a named extension point that plugins attach to.
type ExtensionType string

// Extension points claimed by the built-in render pipeline. Plugins may
// define their own points; any string is a valid ExtensionType.
const (
	// ExtensionNodeDrawer delivers NodeDrawer funcs keyed by node type name.
	ExtensionNodeDrawer ExtensionType = "node-drawer"
	// ExtensionRenderStage delivers RenderStage funcs run in priority order.
	ExtensionRenderStage ExtensionType = "render-stage"
	// ExtensionFilter delivers named shared Filter instances.
	ExtensionFilter ExtensionType = "filter"
	// ExtensionLoadParser is reserved for asset-loader parser plugins.
	ExtensionLoadParser ExtensionType = "load-parser"
)

// DefaultPriority is the priority assigned to extensions that do not declare
// one, unless the handling list overrides it.
const DefaultPriority = -1

// Extension describes a registrable implementation: the extension points it
// attaches to, an optional name (required for map and named-list targets), an
// optional priority (higher sorts earlier; the zero value means "unspecified"
// and resolves to the handling list's default), and the implementation
// itself.
type Extension struct {
	Type     []ExtensionType
	Name     string
	Priority int
	Ref      any
}

// ExtensionProvider is implemented by values that carry their own extension
// metadata. When the returned Extension has a nil Ref, the provider itself is
// registered as the implementation.
type ExtensionProvider interface {
	Extension() Extension
}

// normalizeExtension converts the closed set of accepted shapes — an
// Extension descriptor, a pointer to one, or an ExtensionProvider — into a
// normalized record. Any other shape is a programming error.
func normalizeExtension(item any) Extension {
	var ext Extension
	switch v := item.(type) {
	case Extension:
		ext = v
	case *Extension:
		ext = *v
	case ExtensionProvider:
		ext = v.Extension()
		if ext.Ref == nil {
			ext.Ref = v
		}
	default:
		panic(fmt.Sprintf("banyan: %T is neither an Extension nor an ExtensionProvider", item))
	}
	if len(ext.Type) == 0 {
		panic(fmt.Sprintf("banyan: extension %q declares no extension types", ext.Name))
	}
	return ext
}

// extensionHandler is the pair of callbacks an extension point's owner
// installs via Handle.
type extensionHandler struct {
	onAdd    func(Extension)
	onRemove func(Extension)
}

// Registry maps extension points to their owner's handlers and buffers
// extensions that arrive before a handler is installed.
//
// The maps are mutex-guarded so plugins may register from init funcs on
// different goroutines, but handler callbacks themselves run unlocked and
// follow the package's single-threaded contract.
type Registry struct {
	mu       sync.Mutex
	handlers map[ExtensionType]extensionHandler
	queues   map[ExtensionType][]Extension
}

// NewRegistry creates an empty extension registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[ExtensionType]extensionHandler),
		queues:   make(map[ExtensionType][]Extension),
	}
}

// Extensions is the process-wide registry used by default. Plugins register
// into it from init funcs; the host's pipeline components claim points on it
// at startup, in either order.
var Extensions = NewRegistry()

// Add registers one or more extensions. Each item must be an Extension, a
// *Extension, or an ExtensionProvider. For every extension point an item
// declares, the point's add-handler is invoked immediately if installed;
// otherwise the record is queued until a handler claims the point.
func (r *Registry) Add(items ...any) {
	for _, item := range items {
		ext := normalizeExtension(item)

		// Resolve handlers under the lock, invoke outside it so a handler
		// may call back into the registry.
		var pending []func(Extension)
		r.mu.Lock()
		for _, typ := range ext.Type {
			if h, ok := r.handlers[typ]; ok {
				pending = append(pending, h.onAdd)
			} else {
				r.queues[typ] = append(r.queues[typ], ext)
			}
		}
		r.mu.Unlock()
		for _, onAdd := range pending {
			onAdd(ext)
		}
	}
}

// Remove unregisters one or more extensions, accepting the same shapes as
// Add. For every declared extension point with an installed remove-handler,
// the handler is invoked with the normalized record; the handler decides what
// "matching" means. Removing an extension that was never added is a no-op.
func (r *Registry) Remove(items ...any) {
	for _, item := range items {
		ext := normalizeExtension(item)

		var pending []func(Extension)
		r.mu.Lock()
		for _, typ := range ext.Type {
			if h, ok := r.handlers[typ]; ok && h.onRemove != nil {
				pending = append(pending, h.onRemove)
			}
		}
		r.mu.Unlock()
		for _, onRemove := range pending {
			onRemove(ext)
		}
	}
}

// Handle claims an extension point, installing its add and remove handlers.
// Extensions queued for the point are drained through onAdd in the order they
// arrived, then the queue is discarded.
//
// Each point has exactly one owner for its lifetime: claiming an
// already-claimed point panics. onAdd must be non-nil; onRemove may be nil
// when removal is meaningless for the point.
func (r *Registry) Handle(typ ExtensionType, onAdd, onRemove func(Extension)) {
	if onAdd == nil {
		panic(fmt.Sprintf("banyan: nil add handler for extension type %q", typ))
	}
	r.mu.Lock()
	if _, exists := r.handlers[typ]; exists {
		r.mu.Unlock()
		panic(fmt.Sprintf("banyan: extension type %q already has a handler", typ))
	}
	r.handlers[typ] = extensionHandler{onAdd: onAdd, onRemove: onRemove}
	queued := r.queues[typ]
	delete(r.queues, typ)
	r.mu.Unlock()

	for _, ext := range queued {
		onAdd(ext)
	}
}

// HandleByMap claims an extension point whose extensions are exposed through
// a name-keyed map: adding stores the implementation under the extension's
// name (last registration wins), removing deletes the key. Panics on add if
// an implementation is not a T.
func HandleByMap[T any](r *Registry, typ ExtensionType, target map[string]T) {
	r.Handle(typ,
		func(ext Extension) {
			target[ext.Name] = refAs[T](ext, typ)
		},
		func(ext Extension) {
			delete(target, ext.Name)
		},
	)
}

// HandleByList claims an extension point whose extensions are exposed through
// a slice kept sorted by descending priority. Implementations are
// deduplicated by identity; equal-priority entries keep their insertion
// order. Extensions without a priority get defaultPriority.
func HandleByList[T comparable](r *Registry, typ ExtensionType, target *[]T, defaultPriority int) {
	priorities := make(map[T]int)
	r.Handle(typ,
		func(ext Extension) {
			ref := refAs[T](ext, typ)
			for _, existing := range *target {
				if existing == ref {
					return
				}
			}
			*target = append(*target, ref)
			priorities[ref] = resolvePriority(ext, defaultPriority)
			sortByPriority(*target, func(v T) int { return priorities[v] })
		},
		func(ext Extension) {
			ref := refAs[T](ext, typ)
			for i, existing := range *target {
				if existing == ref {
					*target = append((*target)[:i], (*target)[i+1:]...)
					delete(priorities, ref)
					return
				}
			}
		},
	)
}

// NamedEntry is an element of a named-list extension target.
type NamedEntry[T any] struct {
	Name  string
	Value T
}

// HandleByNamedList is HandleByList for implementations that are not
// comparable (funcs, maps): entries are keyed and deduplicated by the
// extension's name instead of by identity.
func HandleByNamedList[T any](r *Registry, typ ExtensionType, target *[]NamedEntry[T], defaultPriority int) {
	priorities := make(map[string]int)
	r.Handle(typ,
		func(ext Extension) {
			for _, existing := range *target {
				if existing.Name == ext.Name {
					return
				}
			}
			*target = append(*target, NamedEntry[T]{Name: ext.Name, Value: refAs[T](ext, typ)})
			priorities[ext.Name] = resolvePriority(ext, defaultPriority)
			sortByPriority(*target, func(e NamedEntry[T]) int { return priorities[e.Name] })
		},
		func(ext Extension) {
			for i, existing := range *target {
				if existing.Name == ext.Name {
					*target = append((*target)[:i], (*target)[i+1:]...)
					delete(priorities, ext.Name)
					return
				}
			}
		},
	)
}

// refAs asserts an extension's implementation to the target element type.
func refAs[T any](ext Extension, typ ExtensionType) T {
	ref, ok := ext.Ref.(T)
	if !ok {
		panic(fmt.Sprintf("banyan: extension %q for %q has ref type %T, want %T",
			ext.Name, typ, ext.Ref, *new(T)))
	}
	return ref
}

// resolvePriority returns the extension's priority, falling back to the
// list's default when unspecified (zero).
func resolvePriority(ext Extension, defaultPriority int) int {
	if ext.Priority == 0 {
		return defaultPriority
	}
	return ext.Priority
}

// sortByPriority stably sorts a slice descending by priority, so
// equal-priority entries retain insertion order.
func sortByPriority[T any](s []T, priority func(T) int) {
	sort.SliceStable(s, func(i, j int) bool {
		return priority(s[i]) > priority(s[j])
	})
}
