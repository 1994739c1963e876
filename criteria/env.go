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

package criteria

import (
	"fmt"
	"reflect"

	"github.com/repoql/repoql/schema"
)

// EnvOf turns an entity into the nested property environment the
// Evaluator runs against: basic attributes map to their values, embedded
// and association attributes to nested maps, collections to slices of
// maps. Nil pointers map to nil so null checks work naturally.
func EnvOf(entity any, reg *schema.Registry) (map[string]any, error) {
	mt, err := reg.Register(entity)
	if err != nil {
		return nil, err
	}
	v := reflect.ValueOf(entity)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, fmt.Errorf("entity must not be nil")
		}
		v = v.Elem()
	}
	return envOfValue(v, mt, reg)
}

func envOfValue(v reflect.Value, mt *schema.ManagedType, reg *schema.Registry) (map[string]any, error) {
	env := make(map[string]any, len(mt.Attributes()))
	for _, attr := range mt.Attributes() {
		field := v.Field(attr.FieldIndex())

		if attr.Kind == schema.AttrBasic {
			env[attr.Name] = fieldValue(field)
			continue
		}

		nested, err := nestedEnv(field, reg)
		if err != nil {
			return nil, fmt.Errorf("attribute %s.%s: %w", mt.Name(), attr.Name, err)
		}
		env[attr.Name] = nested
	}
	return env, nil
}

func nestedEnv(field reflect.Value, reg *schema.Registry) (any, error) {
	for field.Kind() == reflect.Ptr {
		if field.IsNil() {
			return nil, nil
		}
		field = field.Elem()
	}

	switch field.Kind() {
	case reflect.Struct:
		nested, err := reg.Register(field.Type())
		if err != nil {
			return nil, err
		}
		return envOfValue(field, nested, reg)
	case reflect.Slice, reflect.Array:
		out := make([]any, 0, field.Len())
		for i := 0; i < field.Len(); i++ {
			elem, err := nestedEnv(field.Index(i), reg)
			if err != nil {
				return nil, err
			}
			out = append(out, elem)
		}
		return out, nil
	default:
		return field.Interface(), nil
	}
}

func fieldValue(field reflect.Value) any {
	if field.Kind() == reflect.Ptr {
		if field.IsNil() {
			return nil
		}
		field = field.Elem()
	}
	return field.Interface()
}
