/*
 * Copyright 2025 The RepoQL Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package schema

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

// ErrNoIdentifier is returned when identifier access is requested for a
// type that declares no id attributes.
var ErrNoIdentifier = errors.New("managed type declares no identifier attribute")

// ProxyResolver lets a persistence provider intercept identifier access
// for lazy proxies: given an entity it returns the identifier without
// touching the entity's fields, or ok=false to fall back to reflection.
type ProxyResolver func(entity any) (id any, ok bool)

// EntityInformation exposes identifier access for a managed type. The
// identifier type is resolved lazily on first use and cached.
type EntityInformation struct {
	managed *ManagedType
	proxy   ProxyResolver

	idTypeOnce sync.Once
	idType     reflect.Type
}

// NewEntityInformation creates identifier metadata for the managed type.
// The proxy resolver may be nil.
func NewEntityInformation(mt *ManagedType, proxy ProxyResolver) *EntityInformation {
	return &EntityInformation{managed: mt, proxy: proxy}
}

// ManagedType returns the type this information describes.
func (e *EntityInformation) ManagedType() *ManagedType { return e.managed }

// HasCompositeID reports whether the identifier spans several attributes.
func (e *EntityInformation) HasCompositeID() bool { return e.managed.HasCompositeID() }

// IDType returns the Go type of the identifier: the single id attribute's
// type, or map[string]any for composite identifiers.
func (e *EntityInformation) IDType() reflect.Type {
	e.idTypeOnce.Do(func() {
		ids := e.managed.IDAttributes()
		switch len(ids) {
		case 0:
			e.idType = nil
		case 1:
			e.idType = ids[0].Type
		default:
			e.idType = reflect.TypeOf(map[string]any{})
		}
	})
	return e.idType
}

// ID extracts the identifier from an entity instance. A proxy resolver, if
// configured, is consulted first so that unloaded proxies never get their
// fields read. For a simple identifier the attribute value is returned, or
// nil when it is the zero value. For a composite identifier a map of
// attribute name to value is returned; the map is non-nil as soon as ANY
// component is set, mirroring how partially populated composite ids are
// still considered present.
func (e *EntityInformation) ID(entity any) (any, error) {
	if e.proxy != nil {
		if id, ok := e.proxy(entity); ok {
			return id, nil
		}
	}

	ids := e.managed.IDAttributes()
	if len(ids) == 0 {
		return nil, fmt.Errorf("%s: %w", e.managed.Name(), ErrNoIdentifier)
	}

	v := reflect.ValueOf(entity)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, nil
		}
		v = v.Elem()
	}
	if v.Type() != e.managed.GoType() {
		return nil, fmt.Errorf("expected %s, got %s", e.managed.GoType(), v.Type())
	}

	if len(ids) == 1 {
		field := v.Field(ids[0].index)
		if field.IsZero() {
			return nil, nil
		}
		return field.Interface(), nil
	}

	composite := make(map[string]any, len(ids))
	anySet := false
	for _, attr := range ids {
		field := v.Field(attr.index)
		composite[attr.Name] = field.Interface()
		if !field.IsZero() {
			anySet = true
		}
	}
	if !anySet {
		return nil, nil
	}
	return composite, nil
}

// IsNew reports whether the entity has no identifier assigned yet.
func (e *EntityInformation) IsNew(entity any) (bool, error) {
	id, err := e.ID(entity)
	if err != nil {
		return false, err
	}
	return id == nil, nil
}

// IDFromTuple extracts the identifier from a projected result row keyed by
// column alias. Each id attribute is looked up as "<alias>.<name>" first
// and by bare name second. Composite extraction follows the same
// any-component-set rule as ID.
func (e *EntityInformation) IDFromTuple(tuple map[string]any, alias string) (any, error) {
	ids := e.managed.IDAttributes()
	if len(ids) == 0 {
		return nil, fmt.Errorf("%s: %w", e.managed.Name(), ErrNoIdentifier)
	}

	lookup := func(name string) (any, bool) {
		if alias != "" {
			if v, ok := tuple[alias+"."+name]; ok {
				return v, true
			}
		}
		v, ok := tuple[name]
		return v, ok
	}

	if len(ids) == 1 {
		v, ok := lookup(ids[0].Name)
		if !ok || v == nil {
			return nil, nil
		}
		return v, nil
	}

	composite := make(map[string]any, len(ids))
	anySet := false
	for _, attr := range ids {
		v, ok := lookup(attr.Name)
		if !ok {
			continue
		}
		composite[attr.Name] = v
		if v != nil {
			anySet = true
		}
	}
	if !anySet {
		return nil, nil
	}
	return composite, nil
}
