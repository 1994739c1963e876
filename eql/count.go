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

// syntheticAlias binds the from-query form's implicit selection when the
// query declares no alias of its own.
const syntheticAlias = "__"

// CountTransformer rewrites a parsed read query into its COUNT variant
// without re-parsing. WHERE, GROUP BY and HAVING clauses are carried over
// verbatim; ORDER BY is dropped since ordering does not affect a count.
//
// The count projection resolves in order: an explicit projection supplied by
// the caller, the primary from-alias, the first select item, and finally the
// literal 1. A DISTINCT selection counts the distinct select-item list,
// falling back to the primary alias when the selection is a constructor
// expression, because a constructor call cannot be the argument of
// COUNT(DISTINCT ...).
type CountTransformer struct {
	// Projection optionally overrides the counted expression, e.g. from an
	// annotation attribute.
	Projection string
}

// Transform produces the count-query token stream for the statement.
// Failures indicate query-authoring errors and surface immediately at
// metadata-build time.
func (t CountTransformer) Transform(stmt *SelectStatement) (TokenStream, error) {

	builder := NewBuilder()

	selection, annotateFrom, err := t.countSelection(stmt)
	if err != nil {
		return nil, err
	}

	builder.AppendExpression(selection)
	builder.AppendExpression(stmt.From())
	if annotateFrom {
		builder.AppendStream(StreamOf(ExprAs))
		builder.AppendExpression(StreamOf(NewToken(syntheticAlias)))
	}
	builder.AppendExpression(stmt.Where())
	builder.AppendExpression(stmt.GroupBy())
	builder.AppendExpression(stmt.Having())

	return builder, nil
}

// Render produces the count-query text for the statement.
func (t CountTransformer) Render(stmt *SelectStatement) (string, error) {
	stream, err := t.Transform(stmt)
	if err != nil {
		return "", err
	}
	return Render(stream), nil
}

// countSelection builds the "select count(...)" clause. The returned flag
// requests an "AS __" annotation on the from clause for the synthetic-alias
// fallback of from-queries.
func (t CountTransformer) countSelection(stmt *SelectStatement) (TokenStream, bool, error) {

	builder := NewBuilder()

	if !stmt.HasSelect {
		// from-query form: synthesize the selection of the from-alias
		builder.Append(ExprSelect)
		builder.Append(TokenCountFunc)
		switch {
		case t.Projection != "":
			builder.Append(NewToken(t.Projection))
		case stmt.PrimaryAlias != "":
			builder.Append(NewToken(stmt.PrimaryAlias))
		default:
			builder.Append(NewToken(syntheticAlias))
		}
		builder.Append(TokenCloseParen)
		return builder, t.Projection == "" && stmt.PrimaryAlias == "", nil
	}

	builder.Append(stmt.selectToken)
	builder.Append(TokenCountFunc)

	nested := NewBuilder()
	if t.Projection != "" {
		if stmt.Distinct {
			nested.AppendStream(StreamOf(ExprDistinct))
		}
		nested.AppendExpression(StreamOf(NewToken(t.Projection)))
	} else if stmt.Distinct {
		nested.AppendStream(StreamOf(ExprDistinct))
		selection, err := distinctCountSelection(stmt)
		if err != nil {
			return nil, false, err
		}
		nested.AppendExpression(selection)
	} else if stmt.PrimaryAlias != "" {
		nested.Append(NewToken(stmt.PrimaryAlias))
	} else if len(stmt.Items) > 0 {
		nested.AppendInline(stmt.Items[0].Stream())
	} else {
		nested.Append(NewToken("1"))
	}

	builder.AppendInline(nested)
	builder.Append(TokenCloseParen)

	return builder, false, nil
}

// distinctCountSelection derives the argument of COUNT(DISTINCT ...). A
// constructor expression in the select list requires substituting the
// primary alias, since counting distinct constructor calls is not valid
// query syntax.
func distinctCountSelection(stmt *SelectStatement) (TokenStream, error) {

	for _, item := range stmt.Items {
		if item.Constructor {
			if stmt.PrimaryAlias == "" {
				return nil, ErrConstructorCount
			}
			return StreamOf(NewToken(stmt.PrimaryAlias)), nil
		}
	}

	return Concat(stmt.Items, func(item SelectItem) TokenStream {
		return item.Stream()
	}, TokenComma), nil
}
