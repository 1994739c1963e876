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

package types

import "strings"

// Direction is the ordering direction of a single sort expression.
type Direction int

const (
	// Ascending orders smallest values first. It is the default direction.
	Ascending Direction = iota
	// Descending orders largest values first.
	Descending
)

// String returns the query-language keyword for the direction.
func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// ParseDirection resolves "asc"/"desc" (case insensitive) into a Direction.
// Unknown values default to Ascending.
func ParseDirection(s string) Direction {
	if strings.EqualFold(s, "desc") {
		return Descending
	}
	return Ascending
}

// Order pairs a property path with a Direction.
type Order struct {
	Property   string
	Direction  Direction
	IgnoreCase bool
}

// Asc creates an ascending Order for the given property.
func Asc(property string) Order {
	return Order{Property: property, Direction: Ascending}
}

// Desc creates a descending Order for the given property.
func Desc(property string) Order {
	return Order{Property: property, Direction: Descending}
}

// Sort is an ordered list of Order expressions. The zero value is unsorted.
type Sort struct {
	orders []Order
}

// NewSort creates a Sort from the given orders.
func NewSort(orders ...Order) Sort {
	return Sort{orders: orders}
}

// By creates an ascending Sort over the given properties.
func By(properties ...string) Sort {
	orders := make([]Order, 0, len(properties))
	for _, p := range properties {
		orders = append(orders, Asc(p))
	}
	return Sort{orders: orders}
}

// Unsorted returns the empty Sort.
func Unsorted() Sort {
	return Sort{}
}

// IsSorted reports whether the Sort carries at least one order expression.
func (s Sort) IsSorted() bool {
	return len(s.orders) > 0
}

// Orders returns the order expressions in declaration order.
func (s Sort) Orders() []Order {
	return s.orders
}

// And concatenates two sorts, preserving the receiver's orders first.
func (s Sort) And(other Sort) Sort {
	combined := make([]Order, 0, len(s.orders)+len(other.orders))
	combined = append(combined, s.orders...)
	combined = append(combined, other.orders...)
	return Sort{orders: combined}
}

// Ascending returns a copy of the Sort with every order set to Ascending.
func (s Sort) Ascending() Sort {
	return s.withDirection(Ascending)
}

// Descending returns a copy of the Sort with every order set to Descending.
func (s Sort) Descending() Sort {
	return s.withDirection(Descending)
}

func (s Sort) withDirection(d Direction) Sort {
	orders := make([]Order, len(s.orders))
	for i, o := range s.orders {
		o.Direction = d
		orders[i] = o
	}
	return Sort{orders: orders}
}

// String renders the sort as "property: asc, other: desc" for diagnostics.
func (s Sort) String() string {
	if !s.IsSorted() {
		return "UNSORTED"
	}
	var b strings.Builder
	for i, o := range s.orders {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(o.Property)
		b.WriteString(": ")
		b.WriteString(o.Direction.String())
	}
	return b.String()
}
