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
	"fmt"
	"reflect"
	"sync"
)

// Registry caches ManagedType metadata per Go type. Metadata is built on
// first use and reused afterwards; Clear resets the cache, which test
// suites use to isolate entity registrations.
//
// A Registry is safe for concurrent use. Concurrent first lookups of the
// same type may both reflect over it, but both produce identical metadata
// and the last write wins.
type Registry struct {
	mu     sync.RWMutex
	types  map[reflect.Type]*ManagedType
	byName map[string]*ManagedType
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		types:  make(map[reflect.Type]*ManagedType),
		byName: make(map[string]*ManagedType),
	}
}

// Register resolves and caches metadata for the given entity, which may be
// a struct value, a pointer to one, or a reflect.Type.
func (r *Registry) Register(entity any) (*ManagedType, error) {
	return r.register(entity, "")
}

// RegisterAs registers under an explicit entity name, which anonymous
// struct types need since they have none of their own.
func (r *Registry) RegisterAs(entity any, name string) (*ManagedType, error) {
	return r.register(entity, name)
}

func (r *Registry) register(entity any, name string) (*ManagedType, error) {
	goType := typeOf(entity)

	r.mu.RLock()
	mt, ok := r.types[goType]
	r.mu.RUnlock()
	if ok {
		return mt, nil
	}

	mt, err := newManagedType(goType)
	if err != nil {
		return nil, fmt.Errorf("register %s: %w", goType, err)
	}
	if name != "" {
		mt.name = name
	}

	r.mu.Lock()
	r.types[goType] = mt
	r.byName[mt.Name()] = mt
	r.mu.Unlock()
	return mt, nil
}

// Lookup returns the cached metadata for the entity's type, if present.
func (r *Registry) Lookup(entity any) (*ManagedType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	mt, ok := r.types[typeOf(entity)]
	return mt, ok
}

// LookupName returns the cached metadata for the given entity name.
func (r *Registry) LookupName(name string) (*ManagedType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	mt, ok := r.byName[name]
	return mt, ok
}

// Clear drops all cached metadata.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types = make(map[reflect.Type]*ManagedType)
	r.byName = make(map[string]*ManagedType)
}

func typeOf(entity any) reflect.Type {
	if t, ok := entity.(reflect.Type); ok {
		return deref(t)
	}
	return deref(reflect.TypeOf(entity))
}
