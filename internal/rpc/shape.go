// Package rpc
package rpc

import (
	"reflect"
	"slices"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
)

// ProcedureShape 单个过程的输入输出描述
type ProcedureShape struct {
	Kind   Kind               `json:"kind"`
	Input  *jsonschema.Schema `json:"input"`
	Output *jsonschema.Schema `json:"output"`
}

// RouterShape 路由树的静态描述, 在组合路由时一次性生成, 供文档与客户端生成工具查询
type RouterShape struct {
	Procedures map[string]*ProcedureShape `json:"procedures,omitempty"`
	Routers    map[string]*RouterShape    `json:"routers,omitempty"`
}

func newRouterShape() *RouterShape {
	return &RouterShape{
		Procedures: make(map[string]*ProcedureShape),
		Routers:    make(map[string]*RouterShape),
	}
}

func (s *RouterShape) Lookup(path string) (*ProcedureShape, bool) {
	segments := strings.Split(path, PathSeparator)
	current := s
	for _, segment := range segments[:len(segments)-1] {
		next, ok := current.Routers[segment]
		if !ok {
			return nil, false
		}
		current = next
	}
	shape, ok := current.Procedures[segments[len(segments)-1]]
	return shape, ok
}

func (s *RouterShape) Paths() []string {
	paths := make([]string, 0, len(s.Procedures))
	paths = append(paths, lo.Keys(s.Procedures)...)
	for name, child := range s.Routers {
		for _, path := range child.Paths() {
			paths = append(paths, name+PathSeparator+path)
		}
	}
	slices.Sort(paths)
	return paths
}

var reflector = &jsonschema.Reflector{
	Anonymous:      true,
	DoNotReference: true,
}

func schemaOf(t reflect.Type) *jsonschema.Schema {
	return reflector.ReflectFromType(t)
}
