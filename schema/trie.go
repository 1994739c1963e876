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
	"strings"
	"sync"
)

// PropertyTrie matches property names against the head of a camel-cased
// fragment. Matching is case-insensitive and always prefers the longest
// registered name, so "emailAddress" wins over "email" when both exist.
type PropertyTrie struct {
	root *trieNode
}

type trieNode struct {
	children map[byte]*trieNode
	attr     *Attribute
}

func newPropertyTrie(mt *ManagedType) *PropertyTrie {
	t := &PropertyTrie{root: &trieNode{}}
	attrs := mt.Attributes()
	for i := range attrs {
		t.insert(&attrs[i])
	}
	return t
}

func (t *PropertyTrie) insert(attr *Attribute) {
	node := t.root
	for _, ch := range []byte(strings.ToLower(attr.Name)) {
		if node.children == nil {
			node.children = make(map[byte]*trieNode)
		}
		next, ok := node.children[ch]
		if !ok {
			next = &trieNode{}
			node.children[ch] = next
		}
		node = next
	}
	node.attr = attr
}

// LongestMatch returns the attribute whose name is the longest prefix of
// the fragment, along with the number of fragment bytes it consumed.
func (t *PropertyTrie) LongestMatch(fragment string) (*Attribute, int) {
	lower := strings.ToLower(fragment)
	node := t.root
	var best *Attribute
	bestLen := 0
	for i := 0; i < len(lower); i++ {
		next, ok := node.children[lower[i]]
		if !ok {
			break
		}
		node = next
		if node.attr != nil {
			best = node.attr
			bestLen = i + 1
		}
	}
	return best, bestLen
}

// Path is a resolved property path through an entity graph, e.g.
// "address.zipCode". Leaf is the attribute the final segment names.
type Path struct {
	Segments []string
	Leaf     *Attribute
}

func (p Path) String() string { return strings.Join(p.Segments, ".") }

// PathResolver resolves camel-cased fragments from derived method names
// into property paths, descending into embedded and association types.
// Tries are built lazily per managed type and cached.
type PathResolver struct {
	registry *Registry

	mu    sync.Mutex
	tries map[*ManagedType]*PropertyTrie
}

// NewPathResolver creates a resolver backed by the given registry.
func NewPathResolver(registry *Registry) *PathResolver {
	return &PathResolver{
		registry: registry,
		tries:    make(map[*ManagedType]*PropertyTrie),
	}
}

// Resolve matches the full fragment against the entity's property graph.
// Each step consumes the longest matching property name; an optional "_"
// separator between steps is skipped. The whole fragment must be consumed,
// otherwise the unresolvable tail is reported.
func (r *PathResolver) Resolve(mt *ManagedType, fragment string) (Path, error) {
	var path Path
	rest := fragment
	current := mt

	for rest != "" {
		if current == nil {
			return Path{}, fmt.Errorf("cannot resolve %q: %q is not traversable", fragment, path)
		}
		attr, n := r.trieFor(current).LongestMatch(rest)
		if attr == nil {
			return Path{}, fmt.Errorf("no property matching %q found on %s", rest, current.Name())
		}
		path.Segments = append(path.Segments, attr.Name)
		path.Leaf = attr
		rest = strings.TrimPrefix(rest[n:], "_")

		current = nil
		if attr.Kind != AttrBasic {
			elem := deref(attr.Type)
			if elem.Kind() == reflect.Slice {
				elem = deref(elem.Elem())
			}
			nested, err := r.registry.Register(elem)
			if err != nil {
				return Path{}, err
			}
			current = nested
		}
	}
	return path, nil
}

func (r *PathResolver) trieFor(mt *ManagedType) *PropertyTrie {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tries[mt]
	if !ok {
		t = newPropertyTrie(mt)
		r.tries[mt] = t
	}
	return t
}
