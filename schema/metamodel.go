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

// Package schema describes registered entity types: their attributes, their
// identifier layout, and the property trie used to resolve property paths
// inside derived method names.
package schema

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

// AttributeKind classifies an entity attribute.
type AttributeKind int

const (
	// AttrBasic is a scalar attribute (string, number, bool, time).
	AttrBasic AttributeKind = iota
	// AttrEmbedded is a struct attribute whose fields are flattened into
	// the owning entity's property space.
	AttrEmbedded
	// AttrAssociation is a reference to another entity, single or
	// collection valued.
	AttrAssociation
)

func (k AttributeKind) String() string {
	switch k {
	case AttrBasic:
		return "basic"
	case AttrEmbedded:
		return "embedded"
	case AttrAssociation:
		return "association"
	default:
		return fmt.Sprintf("AttributeKind(%d)", int(k))
	}
}

// Attribute is a single named property of a managed type.
type Attribute struct {
	// Name is the property name in lower-camel form, e.g. "firstname".
	Name string
	// Kind classifies the attribute.
	Kind AttributeKind
	// Type is the Go type of the underlying struct field.
	Type reflect.Type
	// ID marks the attribute as part of the identifier.
	ID bool

	index int
}

// FieldIndex returns the struct field index backing the attribute.
func (a *Attribute) FieldIndex() int { return a.index }

// IsCollection reports whether the attribute holds multiple values.
func (a *Attribute) IsCollection() bool {
	return a.Type.Kind() == reflect.Slice || a.Type.Kind() == reflect.Map
}

// ManagedType is the resolved metadata of a registered entity type.
type ManagedType struct {
	name       string
	goType     reflect.Type
	attributes []Attribute
	byName     map[string]*Attribute
	idAttrs    []*Attribute
}

// Name returns the entity name, by default the struct type's name.
func (t *ManagedType) Name() string { return t.name }

// GoType returns the underlying struct type.
func (t *ManagedType) GoType() reflect.Type { return t.goType }

// Attributes returns all attributes in declaration order.
func (t *ManagedType) Attributes() []Attribute { return t.attributes }

// Attribute looks up an attribute by its property name.
func (t *ManagedType) Attribute(name string) (*Attribute, bool) {
	a, ok := t.byName[strings.ToLower(name)]
	return a, ok
}

// IDAttributes returns the attributes that make up the identifier.
func (t *ManagedType) IDAttributes() []*Attribute { return t.idAttrs }

// HasCompositeID reports whether the identifier spans multiple attributes.
func (t *ManagedType) HasCompositeID() bool { return len(t.idAttrs) > 1 }

// newManagedType reflects over a struct type and classifies each exported
// field. The "eql" struct tag customises registration:
//
//	eql:"-"          skip the field entirely
//	eql:"id"         include the field in the identifier
//	eql:"embedded"   flatten the struct field's properties
//	eql:"name=foo"   override the derived property name
//
// Fields without a tag are classified by type: scalars and time.Time are
// basic, structs and collections of structs are associations.
func newManagedType(goType reflect.Type) (*ManagedType, error) {
	if goType.Kind() == reflect.Ptr {
		goType = goType.Elem()
	}
	if goType.Kind() != reflect.Struct {
		return nil, fmt.Errorf("entity must be a struct, got %s", goType.Kind())
	}

	mt := &ManagedType{
		name:   goType.Name(),
		goType: goType,
		byName: make(map[string]*Attribute),
	}

	for i := 0; i < goType.NumField(); i++ {
		field := goType.Field(i)
		if !field.IsExported() {
			continue
		}

		name := propertyName(field.Name)
		isID := false
		embedded := false
		skip := false

		for _, opt := range strings.Split(field.Tag.Get("eql"), ",") {
			switch {
			case opt == "-":
				skip = true
			case opt == "id":
				isID = true
			case opt == "embedded":
				embedded = true
			case strings.HasPrefix(opt, "name="):
				name = strings.TrimPrefix(opt, "name=")
			}
		}
		if skip {
			continue
		}

		kind := classify(field.Type)
		if embedded {
			if deref(field.Type).Kind() != reflect.Struct {
				return nil, fmt.Errorf("embedded attribute %s.%s must be a struct", mt.name, name)
			}
			kind = AttrEmbedded
		}

		mt.attributes = append(mt.attributes, Attribute{
			Name:  name,
			Kind:  kind,
			Type:  field.Type,
			ID:    isID,
			index: i,
		})
	}

	for i := range mt.attributes {
		a := &mt.attributes[i]
		mt.byName[strings.ToLower(a.Name)] = a
		if a.ID {
			mt.idAttrs = append(mt.idAttrs, a)
		}
	}
	return mt, nil
}

func classify(t reflect.Type) AttributeKind {
	t = deref(t)
	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		if deref(t.Elem()).Kind() == reflect.Struct && deref(t.Elem()) != timeType {
			return AttrAssociation
		}
		return AttrBasic
	case reflect.Struct:
		if t == timeType {
			return AttrBasic
		}
		return AttrAssociation
	default:
		return AttrBasic
	}
}

var timeType = reflect.TypeOf(time.Time{})

func deref(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

// propertyName lowers the first rune of a field name, matching the
// lower-camel convention used in query property paths.
func propertyName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}
