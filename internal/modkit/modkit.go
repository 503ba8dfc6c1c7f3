// Package modkit wires api modules: shared deps, build options and port lookup
package modkit

import (
	"fmt"
	"reflect"

	phttp "piiredact/internal/platform/net/http"
)

// Module is one mountable slice of the api
type Module interface {
	Name() string
	MountRoutes(r phttp.Router)
	// Ports is what the module offers other modules, nil for none
	Ports() any
}

// PortsOf finds a T in m's ports: the value itself or one of its exported fields
func PortsOf[T any](m Module) (T, bool) {
	var zero T
	switch p := m.Ports().(type) {
	case nil:
		return zero, false
	case T:
		return p, true
	}
	rv := reflect.ValueOf(m.Ports())
	if rv.Kind() != reflect.Struct {
		return zero, false
	}
	for i := range rv.NumField() {
		if !rv.Field(i).CanInterface() {
			continue
		}
		if v, ok := rv.Field(i).Interface().(T); ok {
			return v, true
		}
	}
	return zero, false
}

// MustPortsOf is PortsOf for wiring code, a missing port panics
func MustPortsOf[T any](m Module) T {
	v, ok := PortsOf[T](m)
	if !ok {
		panic(fmt.Sprintf("modkit: module %s exposes no %v port", m.Name(), reflect.TypeFor[T]()))
	}
	return v
}
