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

package example

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/repoql/repoql/criteria"
	"github.com/repoql/repoql/schema"
)

// ErrCyclicReference is returned when the probe's object graph loops back
// onto an instance already on the current traversal path.
var ErrCyclicReference = errors.New("probe contains a cyclic reference")

// Predicate turns the example's populated probe properties into a
// predicate with literal arguments. Zero-valued basic properties are
// skipped; nil pointers are skipped or matched as null per the matcher's
// null handling. Collection properties do not participate. An example
// without any populated property yields a predicate matching everything.
func Predicate(ex Example, reg *schema.Registry) (criteria.Predicate, error) {
	mt, err := reg.Register(ex.Probe)
	if err != nil {
		return nil, err
	}

	v := reflect.ValueOf(ex.Probe)
	root := &pathNode{identity: pointerIdentity(v)}
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, fmt.Errorf("probe must not be nil")
		}
		v = v.Elem()
	}

	conds, err := walk(v, mt, "", root, ex.Matcher, reg)
	if err != nil {
		return nil, err
	}

	if ex.Matcher.MatchAny() {
		return criteria.Disjunction(conds...), nil
	}
	return criteria.Conjunction(conds...), nil
}

// pathNode tracks the instances on the current traversal path so cycles
// in the probe graph are caught by identity, not by depth.
type pathNode struct {
	name     string
	parent   *pathNode
	identity uintptr
}

func (n *pathNode) push(name string, identity uintptr) (*pathNode, error) {
	if identity != 0 {
		for cur := n; cur != nil; cur = cur.parent {
			if cur.identity == identity {
				return nil, fmt.Errorf("path %s: %w", name, ErrCyclicReference)
			}
		}
	}
	return &pathNode{name: name, parent: n, identity: identity}, nil
}

func pointerIdentity(v reflect.Value) uintptr {
	if v.Kind() == reflect.Ptr && !v.IsNil() {
		return v.Pointer()
	}
	return 0
}

func walk(v reflect.Value, mt *schema.ManagedType, prefix string, node *pathNode, m Matcher, reg *schema.Registry) ([]criteria.Predicate, error) {
	var conds []criteria.Predicate

	for _, attr := range mt.Attributes() {
		path := attr.Name
		if prefix != "" {
			path = prefix + "." + attr.Name
		}
		if m.IsIgnoredPath(path) {
			continue
		}

		field := v.Field(attr.FieldIndex())

		if attr.IsCollection() {
			continue
		}

		switch attr.Kind {
		case schema.AttrBasic:
			cond, ok := basicCondition(field, path, m)
			if ok {
				conds = append(conds, cond)
			}

		case schema.AttrEmbedded, schema.AttrAssociation:
			identity := pointerIdentity(field)
			target := field
			for target.Kind() == reflect.Ptr {
				if target.IsNil() {
					if m.NullHandler() == NullInclude {
						conds = append(conds, criteria.Comparison{Property: path, Op: criteria.OpIsNull})
					}
					target = reflect.Value{}
					break
				}
				target = target.Elem()
			}
			if !target.IsValid() {
				continue
			}

			next, err := node.push(path, identity)
			if err != nil {
				return nil, err
			}
			nested, err := reg.Register(target.Type())
			if err != nil {
				return nil, err
			}
			sub, err := walk(target, nested, path, next, m, reg)
			if err != nil {
				return nil, err
			}
			conds = append(conds, sub...)
		}
	}
	return conds, nil
}

// basicCondition maps one populated basic property to a comparison.
func basicCondition(field reflect.Value, path string, m Matcher) (criteria.Predicate, bool) {
	if field.Kind() == reflect.Ptr {
		if field.IsNil() {
			if m.NullHandler() == NullInclude {
				return criteria.Comparison{Property: path, Op: criteria.OpIsNull}, true
			}
			return nil, false
		}
		field = field.Elem()
	} else if field.IsZero() {
		return nil, false
	}

	value := field.Interface()
	if spec := m.specifierFor(path); spec.Transform != nil {
		value = spec.Transform(value)
		if value == nil {
			return nil, false
		}
	}

	op := criteria.Eq
	ignoreCase := false
	if _, isString := value.(string); isString {
		ignoreCase = m.ignoreCaseFor(path)
		switch m.stringMatcherFor(path) {
		case MatchStarting:
			op = criteria.OpStartsWith
		case MatchEnding:
			op = criteria.OpEndsWith
		case MatchContaining:
			op = criteria.OpContains
		case MatchRegex:
			op = criteria.OpRegex
		}
	}

	return criteria.Comparison{
		Property:   path,
		Op:         op,
		Args:       []criteria.Argument{criteria.Literal(value)},
		IgnoreCase: ignoreCase,
	}, true
}
