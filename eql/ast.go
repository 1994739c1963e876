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

// Dialect selects the accepted query-language surface.
type Dialect int

const (
	// DialectEQL is the portable query-language subset.
	DialectEQL Dialect = iota
	// DialectJPQL is the provider-flavored superset, permitting fetch joins.
	DialectJPQL
)

// String returns the dialect name.
func (d Dialect) String() string {
	if d == DialectJPQL {
		return "JPQL"
	}
	return "EQL"
}

// SelectItem is a single entry of a select list. The item's token stream
// excludes its alias.
type SelectItem struct {
	stream TokenStream

	// Alias holds the AS alias, if declared.
	Alias string

	// Constructor is set when the item is a constructor call "new Type(...)".
	Constructor bool

	// ConstructorType is the dotted type name of a constructor item.
	ConstructorType string

	// ConstructorArgs holds the argument list stream of a constructor item.
	ConstructorArgs TokenStream
}

// Stream returns the item's token stream, excluding its alias.
func (i SelectItem) Stream() TokenStream {
	return i.stream
}

// IsRootReference reports whether the item selects the given root alias
// directly, as in "select p from Person p".
func (i SelectItem) IsRootReference(alias string) bool {
	tokens := i.stream.Tokens()
	return alias != "" && len(tokens) == 1 && tokens[0].Value() == alias
}

// ParameterBinding describes a bind placeholder found in a query, in order
// of appearance.
type ParameterBinding struct {
	// Name is the parameter name of a ":name" placeholder.
	Name string

	// Position is the declared number of a "?1" style placeholder.
	Position int
}

// IsNamed reports whether the binding uses a named placeholder.
func (b ParameterBinding) IsNamed() bool {
	return b.Name != ""
}

// SelectStatement is the parsed clause structure of a read query. Clause
// token streams mirror the original text; transformers reassemble them
// without re-parsing.
type SelectStatement struct {
	dialect Dialect

	// HasSelect distinguishes a full select query from the "from-query"
	// form with an implicit selection of the primary alias.
	HasSelect bool

	// Distinct is set when the select clause carries DISTINCT.
	Distinct bool

	// Items holds the parsed select list. Empty for from-queries.
	Items []SelectItem

	// PrimaryAlias is the alias of the first range variable, if declared.
	PrimaryAlias string

	// Bindings lists bind placeholders in order of appearance.
	Bindings []ParameterBinding

	selectToken Token
	from        TokenStream
	where       TokenStream
	groupBy     TokenStream
	having      TokenStream
	orderBy     TokenStream
}

// Dialect returns the dialect the statement was parsed with.
func (s *SelectStatement) Dialect() Dialect {
	return s.dialect
}

// From returns the from clause stream, including the FROM keyword.
func (s *SelectStatement) From() TokenStream {
	return s.from
}

// Where returns the where clause stream or an empty stream.
func (s *SelectStatement) Where() TokenStream {
	return orEmpty(s.where)
}

// GroupBy returns the group-by clause stream or an empty stream.
func (s *SelectStatement) GroupBy() TokenStream {
	return orEmpty(s.groupBy)
}

// Having returns the having clause stream or an empty stream.
func (s *SelectStatement) Having() TokenStream {
	return orEmpty(s.having)
}

// OrderBy returns the order-by clause stream or an empty stream.
func (s *SelectStatement) OrderBy() TokenStream {
	return orEmpty(s.orderBy)
}

// SelectClause rebuilds the select clause stream from the parsed items.
// From-queries yield an empty stream.
func (s *SelectStatement) SelectClause() TokenStream {
	if !s.HasSelect {
		return Empty()
	}

	builder := NewBuilder()
	builder.Append(s.selectToken)
	if s.Distinct {
		builder.AppendStream(StreamOf(ExprDistinct))
	}
	builder.AppendExpression(Concat(s.Items, selectItemStream, TokenComma))
	return builder
}

// selectItemStream renders one select item including its alias.
func selectItemStream(item SelectItem) TokenStream {
	if item.Alias == "" {
		return item.stream
	}
	builder := NewBuilder()
	builder.AppendInline(item.stream)
	builder.AppendStream(StreamOf(ExprAs))
	builder.AppendExpression(StreamOf(NewToken(item.Alias)))
	return builder
}

// Stream reassembles the full statement into one token stream.
func (s *SelectStatement) Stream() TokenStream {
	builder := NewBuilder()
	builder.AppendExpression(s.SelectClause())
	builder.AppendExpression(s.from)
	builder.AppendExpression(s.Where())
	builder.AppendExpression(s.GroupBy())
	builder.AppendExpression(s.Having())
	builder.AppendExpression(s.OrderBy())
	return builder
}

// Render produces the statement's normalized query text.
func (s *SelectStatement) Render() string {
	return Render(s.Stream())
}

func orEmpty(stream TokenStream) TokenStream {
	if stream == nil {
		return Empty()
	}
	return stream
}
