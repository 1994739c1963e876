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

package eql

import "strings"

// Token is an atomic lexical unit of a rendered query. A token is either
// inline (punctuation, identifiers, pre-spaced fragments) or an expression.
// Expression tokens demand a separating space from their neighbors when the
// surrounding composition does not already provide one.
//
// Tokens are immutable values; equality is case-insensitive on the value.
type Token struct {
	value      string
	expression bool
}

// NewToken creates an inline token.
func NewToken(value string) Token {
	return Token{value: value}
}

// NewExpression creates an expression token.
func NewExpression(value string) Token {
	return Token{value: value, expression: true}
}

// Value returns the token's text.
func (t Token) Value() string {
	return t.value
}

// IsExpression reports whether the token renders as an expression.
func (t Token) IsExpression() bool {
	return t.expression
}

// Equal compares two tokens by value, ignoring case.
func (t Token) Equal(other Token) bool {
	return strings.EqualFold(t.value, other.value)
}

// String returns the token's text.
func (t Token) String() string {
	return t.value
}

// Commonly used tokens.
var (
	TokenNone       = NewToken("")
	TokenComma      = NewToken(", ")
	TokenSpace      = NewToken(" ")
	TokenDot        = NewToken(".")
	TokenEquals     = NewToken(" = ")
	TokenOpenParen  = NewToken("(")
	TokenCloseParen = NewToken(")")
	TokenColon      = NewToken(":")
	TokenQuestion   = NewToken("?")
	TokenCountFunc  = NewToken("count(")
	TokenLowerFunc  = NewToken("lower(")
	TokenNewFunc    = NewToken("new ")

	ExprSelect   = NewExpression("select")
	ExprDistinct = NewExpression("distinct")
	ExprFrom     = NewExpression("from")
	ExprWhere    = NewExpression("where")
	ExprGroupBy  = NewExpression("group by")
	ExprHaving   = NewExpression("having")
	ExprOrderBy  = NewExpression("order by")
	ExprAs       = NewExpression("as")
	ExprAsc      = NewExpression("asc")
	ExprDesc     = NewExpression("desc")
	ExprAnd      = NewExpression("and")
	ExprOr       = NewExpression("or")
	ExprNot      = NewExpression("not")
)
