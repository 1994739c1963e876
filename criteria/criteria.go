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

// Package criteria models query predicates as a small tree and compiles
// them either to parameterized query text or to an in-memory matcher.
package criteria

import (
	"fmt"

	"github.com/repoql/repoql/method"
)

// Operator is a comparison applied to one property.
type Operator int

const (
	Eq Operator = iota
	Ne
	Lt
	Le
	Gt
	Ge
	OpBetween
	OpLike
	OpNotLike
	OpStartsWith
	OpEndsWith
	OpContains
	OpNotContains
	OpIn
	OpNotIn
	OpIsNull
	OpNotNull
	OpIsEmpty
	OpNotEmpty
	OpIsTrue
	OpIsFalse
	OpRegex
)

var operatorNames = map[Operator]string{
	Eq: "=", Ne: "<>", Lt: "<", Le: "<=", Gt: ">", Ge: ">=",
	OpBetween: "between", OpLike: "like", OpNotLike: "not like",
	OpStartsWith: "starts-with", OpEndsWith: "ends-with",
	OpContains: "contains", OpNotContains: "not-contains",
	OpIn: "in", OpNotIn: "not in",
	OpIsNull: "is null", OpNotNull: "is not null",
	OpIsEmpty: "is empty", OpNotEmpty: "is not empty",
	OpIsTrue: "= true", OpIsFalse: "= false",
	OpRegex: "matches",
}

func (o Operator) String() string { return operatorNames[o] }

// Argument is one operand of a comparison: either a literal value or a
// positional placeholder bound later (Position is 1-based; 0 means the
// Value field carries a literal).
type Argument struct {
	Position int
	Value    any
}

// Literal wraps a concrete value.
func Literal(v any) Argument { return Argument{Value: v} }

// Placeholder references the n-th bind argument, 1-based.
func Placeholder(n int) Argument { return Argument{Position: n} }

// IsLiteral reports whether the argument carries an inline value.
func (a Argument) IsLiteral() bool { return a.Position == 0 }

// Predicate is a node of the condition tree.
type Predicate interface {
	isPredicate()
}

// Comparison compares a property path against its arguments.
type Comparison struct {
	Property   string
	Op         Operator
	Args       []Argument
	IgnoreCase bool
}

// And is the conjunction of its operands.
type And struct {
	Operands []Predicate
}

// Or is the disjunction of its operands.
type Or struct {
	Operands []Predicate
}

// Not negates its operand.
type Not struct {
	Operand Predicate
}

// TrueValue matches every row. An empty probe or an empty derived
// predicate compiles to this.
type TrueValue struct{}

func (Comparison) isPredicate() {}
func (And) isPredicate()        {}
func (Or) isPredicate()         {}
func (Not) isPredicate()        {}
func (TrueValue) isPredicate()  {}

// Conjunction folds predicates into a single node, flattening the trivial
// cases.
func Conjunction(preds ...Predicate) Predicate {
	return fold(preds, func(ops []Predicate) Predicate { return And{Operands: ops} })
}

// Disjunction folds predicates into a single node.
func Disjunction(preds ...Predicate) Predicate {
	return fold(preds, func(ops []Predicate) Predicate { return Or{Operands: ops} })
}

func fold(preds []Predicate, combine func([]Predicate) Predicate) Predicate {
	kept := preds[:0:0]
	for _, p := range preds {
		if _, ok := p.(TrueValue); ok {
			continue
		}
		kept = append(kept, p)
	}
	switch len(kept) {
	case 0:
		return TrueValue{}
	case 1:
		return kept[0]
	default:
		return combine(kept)
	}
}

// FromTree converts a parsed method tree into a predicate with positional
// placeholders, numbering the bind arguments left to right.
func FromTree(tree *method.Tree) (Predicate, error) {
	position := 0
	var branches []Predicate
	for _, branch := range tree.Branches {
		var parts []Predicate
		for _, part := range branch {
			pred, err := fromPart(part, &position)
			if err != nil {
				return nil, err
			}
			parts = append(parts, pred)
		}
		branches = append(branches, Conjunction(parts...))
	}
	return Disjunction(branches...), nil
}

func fromPart(part method.Part, position *int) (Predicate, error) {
	op, ok := partOperators[part.Type]
	if !ok {
		return nil, fmt.Errorf("unsupported condition type %s", part.Type)
	}

	args := make([]Argument, 0, part.Type.NumberOfArguments())
	for i := 0; i < part.Type.NumberOfArguments(); i++ {
		*position++
		args = append(args, Placeholder(*position))
	}

	return Comparison{
		Property:   part.Path.String(),
		Op:         op,
		Args:       args,
		IgnoreCase: part.IgnoreCase,
	}, nil
}

var partOperators = map[method.PartType]Operator{
	method.Between:                OpBetween,
	method.IsNotNull:              OpNotNull,
	method.IsNull:                 OpIsNull,
	method.LessThan:               Lt,
	method.LessThanEqual:          Le,
	method.GreaterThan:            Gt,
	method.GreaterThanEqual:       Ge,
	method.Before:                 Lt,
	method.After:                  Gt,
	method.NotLike:                OpNotLike,
	method.Like:                   OpLike,
	method.StartingWith:           OpStartsWith,
	method.EndingWith:             OpEndsWith,
	method.IsNotEmpty:             OpNotEmpty,
	method.IsEmpty:                OpIsEmpty,
	method.NotContaining:          OpNotContains,
	method.Containing:             OpContains,
	method.NotIn:                  OpNotIn,
	method.In:                     OpIn,
	method.Regex:                  OpRegex,
	method.True:                   OpIsTrue,
	method.False:                  OpIsFalse,
	method.NegatingSimpleProperty: Ne,
	method.SimpleProperty:         Eq,
}
