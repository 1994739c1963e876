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

// Projection describes the constructor surface of a DTO target type.
type Projection struct {
	// TypeName is the dotted name used in the constructor expression.
	TypeName string

	// Properties lists the constructor-input properties in declared order.
	Properties []string

	// Record marks target types capable of implicit positional mapping, for
	// which an already-itemized single selection needs no constructor
	// wrapping.
	Record bool
}

// DtoTransformer rewrites a plain selection list into a constructor-call
// expression "new Type(arg, ...)" for DTO materialization. Two expansion
// strategies apply: a single root-alias selection expands into one
// constructor argument per target property, while an itemized selection
// list passes through unchanged inside the constructor call.
type DtoTransformer struct {
	Target Projection
}

// CanRewrite reports whether the statement's selection should be rewritten
// for the target projection. Rewriting is skipped when the selection already
// is a constructor call, or when a single itemized selection feeds a record
// type that maps positionally on its own.
func (t DtoTransformer) CanRewrite(stmt *SelectStatement) bool {

	if !stmt.HasSelect || len(stmt.Items) == 0 {
		return false
	}

	for _, item := range stmt.Items {
		if item.Constructor {
			return false
		}
	}

	if t.Target.Record && len(stmt.Items) == 1 && !stmt.Items[0].IsRootReference(stmt.PrimaryAlias) {
		return false
	}

	return len(t.Target.Properties) > 0
}

// Transform produces the rewritten statement stream. Statements for which
// CanRewrite is false are reassembled unchanged.
func (t DtoTransformer) Transform(stmt *SelectStatement) TokenStream {

	if !t.CanRewrite(stmt) {
		return stmt.Stream()
	}

	builder := NewBuilder()
	builder.AppendExpression(t.constructorSelection(stmt))
	builder.AppendExpression(stmt.From())
	builder.AppendExpression(stmt.Where())
	builder.AppendExpression(stmt.GroupBy())
	builder.AppendExpression(stmt.Having())
	builder.AppendExpression(stmt.OrderBy())
	return builder
}

// Render produces the rewritten query text.
func (t DtoTransformer) Render(stmt *SelectStatement) string {
	return Render(t.Transform(stmt))
}

func (t DtoTransformer) constructorSelection(stmt *SelectStatement) TokenStream {

	builder := NewBuilder()
	builder.Append(stmt.selectToken)
	if stmt.Distinct {
		builder.AppendStream(StreamOf(ExprDistinct))
	}

	constructor := NewBuilder()
	constructor.Append(TokenNewFunc)
	constructor.Append(NewToken(t.Target.TypeName))
	constructor.Append(TokenOpenParen)
	constructor.AppendInline(t.constructorArguments(stmt))
	constructor.Append(TokenCloseParen)

	builder.AppendExpression(constructor)
	return builder
}

// constructorArguments chooses between property expansion of a root-alias
// selection and pass-through of an itemized selection list.
func (t DtoTransformer) constructorArguments(stmt *SelectStatement) TokenStream {

	if len(stmt.Items) == 1 && stmt.Items[0].IsRootReference(stmt.PrimaryAlias) {
		alias := stmt.PrimaryAlias
		return Concat(t.Target.Properties, func(property string) TokenStream {
			return StreamOf(NewToken(alias), TokenDot, NewToken(property))
		}, TokenComma)
	}

	return Concat(stmt.Items, func(item SelectItem) TokenStream {
		return item.Stream()
	}, TokenComma)
}
