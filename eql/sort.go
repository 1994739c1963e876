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

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/repoql/repoql/types"
)

// safeSortProperty limits dynamic sort expressions to plain property paths.
// Anything else, in particular function calls, is rejected to keep
// caller-supplied sorts from injecting arbitrary query text.
var safeSortProperty = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)

// SortTransformer appends a dynamic Sort to a parsed query, merging with an
// existing ORDER BY clause.
type SortTransformer struct {
	Sort types.Sort
}

// Transform produces the sorted statement stream. An unsorted Sort
// reassembles the statement unchanged.
func (t SortTransformer) Transform(stmt *SelectStatement) (TokenStream, error) {

	if !t.Sort.IsSorted() {
		return stmt.Stream(), nil
	}

	orders := t.Sort.Orders()
	for _, order := range orders {
		if !safeSortProperty.MatchString(order.Property) {
			return nil, &ParseError{
				Type:    ErrorTypeTransform,
				Message: fmt.Sprintf("sort property '%s' must be a plain property path", order.Property),
			}
		}
	}

	builder := NewBuilder()
	builder.AppendExpression(stmt.SelectClause())
	builder.AppendExpression(stmt.From())
	builder.AppendExpression(stmt.Where())
	builder.AppendExpression(stmt.GroupBy())
	builder.AppendExpression(stmt.Having())

	orderBy := NewBuilder()
	if stmt.OrderBy().IsEmpty() {
		orderBy.Append(ExprOrderBy)
	} else {
		orderBy.AppendStream(stmt.OrderBy())
		orderBy.Append(TokenComma)
	}
	orderBy.AppendExpression(Concat(orders, func(order types.Order) TokenStream {
		return t.orderStream(stmt, order)
	}, TokenComma))

	builder.AppendExpression(orderBy)
	return builder, nil
}

// Render produces the sorted query text.
func (t SortTransformer) Render(stmt *SelectStatement) (string, error) {
	stream, err := t.Transform(stmt)
	if err != nil {
		return "", err
	}
	return Render(stream), nil
}

// orderStream renders one order expression, qualifying unqualified
// properties with the primary alias.
func (t SortTransformer) orderStream(stmt *SelectStatement, order types.Order) TokenStream {

	property := order.Property
	if stmt.PrimaryAlias != "" && !strings.Contains(property, ".") {
		property = stmt.PrimaryAlias + "." + property
	}

	builder := NewBuilder()
	if order.IgnoreCase {
		builder.Append(TokenLowerFunc)
		builder.Append(NewToken(property))
		builder.Append(TokenCloseParen)
	} else {
		builder.Append(NewToken(property))
	}
	if order.Direction == types.Descending {
		builder.AppendStream(StreamOf(ExprDesc))
	} else {
		builder.AppendStream(StreamOf(ExprAsc))
	}
	return builder
}
