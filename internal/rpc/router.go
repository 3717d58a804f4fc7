// Package rpc
package rpc

import (
	"fmt"
	"reflect"
	"strings"
)

const PathSeparator = "."

// Router 名称到过程或子路由的映射, 组合完成后不可变
type Router[C any] struct {
	procedures map[string]Procedure[C]
	routers    map[string]*Router[C]
	shape      *RouterShape
}

// Entry 路由中的一个具名成员
type Entry[C any] struct {
	name      string
	procedure Procedure[C]
	router    *Router[C]
}

func Handle[C any](name string, procedure Procedure[C]) Entry[C] {
	return Entry[C]{name: name, procedure: procedure}
}

func Mount[C any](name string, router *Router[C]) Entry[C] {
	return Entry[C]{name: name, router: router}
}

func NewRouter[C any](entries ...Entry[C]) (*Router[C], error) {
	router := &Router[C]{
		procedures: make(map[string]Procedure[C]),
		routers:    make(map[string]*Router[C]),
		shape:      newRouterShape(),
	}
	for _, entry := range entries {
		if err := router.add(entry); err != nil {
			return nil, err
		}
	}
	return router, nil
}

// Compose 将各个命名空间下的子路由合并为一个路由, 命名空间重名时返回 DuplicateNamespaceError
func Compose[C any](namespaces ...Entry[C]) (*Router[C], error) {
	return NewRouter(namespaces...)
}

func MustCompose[C any](namespaces ...Entry[C]) *Router[C] {
	router, err := Compose(namespaces...)
	if err != nil {
		panic(err)
	}
	return router
}

// Merge 将多个路由的顶层成员合并到一个新路由中
func Merge[C any](routers ...*Router[C]) (*Router[C], error) {
	entries := make([]Entry[C], 0)
	for _, router := range routers {
		if router == nil {
			return nil, ErrNilEntry
		}
		entries = append(entries, router.entries()...)
	}
	return NewRouter(entries...)
}

func (r *Router[C]) add(entry Entry[C]) error {
	if entry.name == "" || strings.Contains(entry.name, PathSeparator) {
		return fmt.Errorf("%w: %q", ErrInvalidName, entry.name)
	}
	if r.has(entry.name) {
		return &DuplicateNamespaceError{Name: entry.name}
	}
	switch {
	case !isNil(entry.procedure):
		r.procedures[entry.name] = entry.procedure
		r.shape.Procedures[entry.name] = entry.procedure.Shape()
	case entry.router != nil:
		r.routers[entry.name] = entry.router
		r.shape.Routers[entry.name] = entry.router.shape
	default:
		return fmt.Errorf("%w: %q", ErrNilEntry, entry.name)
	}
	return nil
}

func (r *Router[C]) has(name string) bool {
	_, isProcedure := r.procedures[name]
	_, isRouter := r.routers[name]
	return isProcedure || isRouter
}

func (r *Router[C]) entries() []Entry[C] {
	entries := make([]Entry[C], 0, len(r.procedures)+len(r.routers))
	for name, procedure := range r.procedures {
		entries = append(entries, Handle(name, procedure))
	}
	for name, router := range r.routers {
		entries = append(entries, Mount(name, router))
	}
	return entries
}

// Lookup 按 a.b.c 形式的路径查找叶子过程
func (r *Router[C]) Lookup(path string) (Procedure[C], error) {
	segments := strings.Split(path, PathSeparator)
	current := r
	for _, segment := range segments[:len(segments)-1] {
		next, ok := current.routers[segment]
		if !ok {
			return nil, &ProcedureNotFoundError{Path: path}
		}
		current = next
	}
	procedure, ok := current.procedures[segments[len(segments)-1]]
	if !ok {
		return nil, &ProcedureNotFoundError{Path: path}
	}
	return procedure, nil
}

// Child 返回直接挂载的子路由
func (r *Router[C]) Child(name string) (*Router[C], bool) {
	child, ok := r.routers[name]
	return child, ok
}

func (r *Router[C]) Paths() []string { return r.shape.Paths() }

func (r *Router[C]) Shape() *RouterShape { return r.shape }

func isNil(value any) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}
