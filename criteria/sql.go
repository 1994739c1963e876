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
	"strings"

	"github.com/spf13/cast"

	"github.com/repoql/repoql/eql"
)

// Compiler renders a predicate as a WHERE-clause token stream with
// positional ?N parameters. Literal arguments are collected into the
// returned argument slice in placeholder order; pattern operators
// (starting with, containing, ...) get their wildcards and escaping
// applied to literal values here. A predicate should carry either only
// literals or only pre-numbered placeholders, not both.
type Compiler struct {
	// Alias qualifies unqualified property paths, e.g. "p".
	Alias string
	// Escape is the LIKE escape character. The zero value falls back to
	// DefaultEscape.
	Escape EscapeCharacter
}

// Where compiles the predicate. A TrueValue predicate yields an empty
// stream, meaning the caller can omit the WHERE clause entirely.
func (c *Compiler) Where(p Predicate) (eql.TokenStream, []any, error) {
	escape := c.Escape
	if escape == (EscapeCharacter{}) {
		escape = DefaultEscape
	}
	st := &compileState{alias: c.Alias, escape: escape}
	stream, err := st.compile(p, false)
	if err != nil {
		return nil, nil, err
	}
	return stream, st.args, nil
}

type compileState struct {
	alias  string
	escape EscapeCharacter
	args   []any
	next   int
}

func (st *compileState) compile(p Predicate, grouped bool) (eql.TokenStream, error) {
	switch node := p.(type) {
	case TrueValue:
		return eql.Empty(), nil
	case Comparison:
		return st.comparison(node)
	case And:
		return st.junction(node.Operands, eql.ExprAnd, grouped, true)
	case Or:
		return st.junction(node.Operands, eql.ExprOr, grouped, false)
	case Not:
		inner, err := st.compile(node.Operand, true)
		if err != nil {
			return nil, err
		}
		b := &eql.Builder{}
		b.Append(eql.ExprNot, eql.TokenOpenParen)
		b.AppendInline(inner)
		b.Append(eql.TokenCloseParen)
		return b.Build(), nil
	default:
		return nil, fmt.Errorf("unknown predicate node %T", p)
	}
}

// junction joins operands with and/or. Or nested under And is
// parenthesized to preserve the tree's grouping.
func (st *compileState) junction(operands []Predicate, op eql.Token, grouped, isAnd bool) (eql.TokenStream, error) {
	b := &eql.Builder{}
	if grouped && !isAnd {
		b.Append(eql.TokenOpenParen)
	}
	for i, operand := range operands {
		if i > 0 {
			b.Append(op)
		}
		inner, err := st.compile(operand, isAnd)
		if err != nil {
			return nil, err
		}
		b.AppendInline(inner)
	}
	if grouped && !isAnd {
		b.Append(eql.TokenCloseParen)
	}
	return b.Build(), nil
}

func (st *compileState) comparison(cmp Comparison) (eql.TokenStream, error) {
	b := &eql.Builder{}
	property := cmp.Property
	if st.alias != "" {
		property = st.alias + "." + property
	}

	writeProperty := func() {
		if cmp.IgnoreCase {
			b.Append(eql.TokenLowerFunc, eql.NewToken(property), eql.TokenCloseParen)
		} else {
			b.Append(eql.NewToken(property))
		}
	}

	switch cmp.Op {
	case Eq, Ne, Lt, Le, Gt, Ge:
		writeProperty()
		b.Append(eql.NewToken(" " + operatorNames[cmp.Op] + " "))
		b.Append(st.argument(cmp, 0, identityPattern))
	case OpBetween:
		writeProperty()
		b.Append(eql.NewExpression("between"), st.argument(cmp, 0, identityPattern),
			eql.ExprAnd, st.argument(cmp, 1, identityPattern))
	case OpLike, OpNotLike:
		st.like(b, writeProperty, cmp, identityPattern)
	case OpStartsWith:
		st.like(b, writeProperty, cmp, st.escape.StartsWith)
	case OpEndsWith:
		st.like(b, writeProperty, cmp, st.escape.EndsWith)
	case OpContains, OpNotContains:
		st.like(b, writeProperty, cmp, st.escape.Contains)
	case OpIn, OpNotIn:
		writeProperty()
		if cmp.Op == OpNotIn {
			b.Append(eql.ExprNot)
		}
		b.Append(eql.NewExpression("in"), eql.TokenOpenParen)
		st.inList(b, cmp)
		b.Append(eql.TokenCloseParen)
	case OpIsNull:
		writeProperty()
		b.Append(eql.NewExpression("is"), eql.NewExpression("null"))
	case OpNotNull:
		writeProperty()
		b.Append(eql.NewExpression("is"), eql.ExprNot, eql.NewExpression("null"))
	case OpIsEmpty:
		writeProperty()
		b.Append(eql.NewExpression("is"), eql.NewExpression("empty"))
	case OpNotEmpty:
		writeProperty()
		b.Append(eql.NewExpression("is"), eql.ExprNot, eql.NewExpression("empty"))
	case OpIsTrue:
		writeProperty()
		b.Append(eql.TokenEquals, eql.NewToken("true"))
	case OpIsFalse:
		writeProperty()
		b.Append(eql.TokenEquals, eql.NewToken("false"))
	case OpRegex:
		return nil, fmt.Errorf("property %s: regex conditions cannot be rendered as query text", cmp.Property)
	default:
		return nil, fmt.Errorf("property %s: unsupported operator %s", cmp.Property, cmp.Op)
	}
	return b.Build(), nil
}

// like renders "<prop> [not] like ?N escape '\'" for the pattern family.
func (st *compileState) like(b *eql.Builder, writeProperty func(), cmp Comparison, pattern func(string) string) {
	writeProperty()
	if cmp.Op == OpNotLike || cmp.Op == OpNotContains {
		b.Append(eql.ExprNot)
	}
	b.Append(eql.NewExpression("like"))
	b.Append(st.argument(cmp, 0, pattern))
	b.Append(eql.NewExpression("escape"), eql.NewToken("'"+st.escape.String()+"'"))
}

func identityPattern(s string) string { return s }

func lowerString(s string) string { return strings.ToLower(s) }

// argument renders one operand: placeholders keep their number, literals
// are appended to the args slice and numbered sequentially. Literal values
// get the pattern transform and lowercasing applied up front; a placeholder
// is wrapped in lower() instead, so both sides of an ignore-case comparison
// fold regardless of how the argument is bound. Pattern wildcards for
// placeholder values remain the binder's job.
func (st *compileState) argument(cmp Comparison, idx int, pattern func(string) string) eql.Token {
	arg := cmp.Args[idx]
	if !arg.IsLiteral() {
		placeholder := fmt.Sprintf("?%d", arg.Position)
		if cmp.IgnoreCase {
			placeholder = "lower(" + placeholder + ")"
		}
		return eql.NewToken(placeholder)
	}

	value := arg.Value
	if isPatternOp(cmp.Op) || cmp.IgnoreCase {
		s := cast.ToString(value)
		if cmp.IgnoreCase {
			s = lowerString(s)
		}
		value = pattern(s)
	}
	st.args = append(st.args, value)
	st.next = len(st.args)
	return eql.NewToken(fmt.Sprintf("?%d", st.next))
}

// inList expands a literal slice argument element-wise; a placeholder is
// emitted as a single parameter for the driver to expand.
func (st *compileState) inList(b *eql.Builder, cmp Comparison) {
	arg := cmp.Args[0]
	if !arg.IsLiteral() {
		b.Append(eql.NewToken(fmt.Sprintf("?%d", arg.Position)))
		return
	}

	v := reflect.ValueOf(arg.Value)
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		b.Append(st.argument(cmp, 0, identityPattern))
		return
	}
	for i := 0; i < v.Len(); i++ {
		if i > 0 {
			b.Append(eql.TokenComma)
		}
		st.args = append(st.args, v.Index(i).Interface())
		b.Append(eql.NewToken(fmt.Sprintf("?%d", len(st.args))))
	}
}

func isPatternOp(op Operator) bool {
	switch op {
	case OpLike, OpNotLike, OpStartsWith, OpEndsWith, OpContains, OpNotContains:
		return true
	default:
		return false
	}
}
