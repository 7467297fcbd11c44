package escrowd

import (
	"fmt"
	"sort"
)

// Query modifiers understood by every query handler. The modifier follows
// the path after a question mark, as in "/escrows?prefix".
const (
	KeyQueryMod    = ""
	PrefixQueryMod = "prefix"
)

// Model is a single key/value pair as returned by a query.
type Model struct {
	Key   []byte
	Value []byte
}

// Pair returns a Model of the given key and value.
func Pair(key, value []byte) Model {
	return Model{Key: key, Value: value}
}

// QueryHandler answers ABCI queries for one path, reading the last
// committed state.
type QueryHandler interface {
	Query(db ReadOnlyKVStore, mod string, data []byte) ([]Model, error)
}

// QueryRouter maps query paths such as "/wallets" or "/escrows/recipient"
// to their handlers.
type QueryRouter struct {
	routes map[string]QueryHandler
}

// NewQueryRouter returns a router without any path.
func NewQueryRouter() QueryRouter {
	return QueryRouter{routes: make(map[string]QueryHandler)}
}

// RegisterAll calls each registration function with this router.
func (r QueryRouter) RegisterAll(fns ...func(QueryRouter)) {
	for _, fn := range fns {
		fn(r)
	}
}

// Register binds h to path. A path can be bound only once, a second
// registration is a programming error and panics.
func (r QueryRouter) Register(path string, h QueryHandler) {
	if _, exists := r.routes[path]; exists {
		panic(fmt.Sprintf("query path %q is already registered", path))
	}
	r.routes[path] = h
}

// Handler returns the handler of path or nil.
func (r QueryRouter) Handler(path string) QueryHandler {
	return r.routes[path]
}

// Paths lists every registered path in order.
func (r QueryRouter) Paths() []string {
	paths := make([]string, 0, len(r.routes))
	for p := range r.routes {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
