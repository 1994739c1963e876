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

// TokenStream is an ordered sequence of tokens or nested streams. A stream
// knows whether it represents an expression, which controls boundary-space
// insertion when streams are composed.
type TokenStream interface {
	// Tokens returns the flattened token sequence.
	Tokens() []Token

	// IsExpression reports whether the stream acts as an expression at its
	// composition boundaries.
	IsExpression() bool

	// IsEmpty reports whether the stream contains no tokens.
	IsEmpty() bool

	// Size returns the number of tokens in the flattened stream.
	Size() int

	renderTo(r *renderer)
}

// Empty returns the empty token stream.
func Empty() TokenStream {
	return emptyStream{}
}

// StreamOf creates a stream from a fixed token sequence.
func StreamOf(tokens ...Token) TokenStream {
	return tokenStream(tokens)
}

// Expression wraps a stream so it is treated as an expression at its
// boundaries regardless of its content.
func Expression(stream TokenStream) TokenStream {
	if stream.IsEmpty() {
		return stream
	}
	return wrappedStream{inner: stream, expression: true}
}

// Inline wraps a stream so it composes without forcing boundary spaces.
func Inline(stream TokenStream) TokenStream {
	if stream.IsEmpty() {
		return stream
	}
	return wrappedStream{inner: stream, expression: false}
}

// Concat composes a stream from a collection of elements mapped through
// visit, inserting separator strictly between non-empty elements. A single
// element is returned as-is without touching the separator.
func Concat[T any](elements []T, visit func(T) TokenStream, separator Token) TokenStream {
	return concat(elements, visit, Inline, separator)
}

// ConcatExpressions composes a stream like Concat but treats every element
// as an expression, so elements are space-separated at their boundaries.
func ConcatExpressions[T any](elements []T, visit func(T) TokenStream, separator Token) TokenStream {
	return concat(elements, visit, Expression, separator)
}

func concat[T any](elements []T, visit func(T) TokenStream, post func(TokenStream) TokenStream, separator Token) TokenStream {

	var builder *Builder
	var first TokenStream

	for _, element := range elements {
		stream := post(visit(element))
		if stream.IsEmpty() {
			continue
		}

		if first == nil {
			first = stream
			continue
		}

		if builder == nil {
			builder = NewBuilder()
			builder.AppendStream(first)
		}

		builder.Append(separator)
		builder.AppendStream(stream)
	}

	if builder != nil {
		return builder
	}
	if first != nil {
		return first
	}
	return Empty()
}

type emptyStream struct{}

func (emptyStream) Tokens() []Token              { return nil }
func (emptyStream) IsExpression() bool           { return false }
func (emptyStream) IsEmpty() bool                { return true }
func (emptyStream) Size() int                    { return 0 }
func (emptyStream) renderTo(_ *renderer)         {}

type tokenStream []Token

func (t tokenStream) Tokens() []Token { return t }

// IsExpression of a plain token sequence is carried by its last token.
func (t tokenStream) IsExpression() bool {
	return len(t) > 0 && t[len(t)-1].IsExpression()
}

func (t tokenStream) IsEmpty() bool { return len(t) == 0 }
func (t tokenStream) Size() int     { return len(t) }

func (t tokenStream) renderTo(r *renderer) {
	previousExpression := false
	for _, token := range t {
		if previousExpression {
			r.space()
		}
		previousExpression = token.IsExpression()
		r.write(token.Value())
	}
}

type wrappedStream struct {
	inner      TokenStream
	expression bool
}

func (w wrappedStream) Tokens() []Token    { return w.inner.Tokens() }
func (w wrappedStream) IsExpression() bool { return w.expression }
func (w wrappedStream) IsEmpty() bool      { return w.inner.IsEmpty() }
func (w wrappedStream) Size() int          { return w.inner.Size() }

func (w wrappedStream) renderTo(r *renderer) {
	w.inner.renderTo(r)
}

// Builder composes token streams incrementally. A Builder is itself a
// TokenStream, so partially built compositions mix freely with finished
// streams during a single transformation pass.
type Builder struct {
	parts []TokenStream
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Append adds tokens.
func (b *Builder) Append(tokens ...Token) *Builder {
	if len(tokens) == 0 {
		return b
	}

	// merge into a trailing token sequence to keep flat streams flat
	if n := len(b.parts); n > 0 {
		if ts, ok := b.parts[n-1].(tokenStream); ok {
			b.parts[n-1] = append(ts, tokens...)
			return b
		}
	}
	b.parts = append(b.parts, tokenStream(append([]Token(nil), tokens...)))
	return b
}

// AppendStream adds a nested stream keeping its own expression semantics.
func (b *Builder) AppendStream(stream TokenStream) *Builder {
	if stream.IsEmpty() {
		return b
	}
	b.parts = append(b.parts, stream)
	return b
}

// AppendExpression adds a nested stream forced to expression boundaries.
func (b *Builder) AppendExpression(stream TokenStream) *Builder {
	return b.AppendStream(Expression(stream))
}

// AppendInline adds a nested stream suppressing boundary spaces.
func (b *Builder) AppendInline(stream TokenStream) *Builder {
	return b.AppendStream(Inline(stream))
}

// Tokens returns the flattened token sequence of all parts.
func (b *Builder) Tokens() []Token {
	var tokens []Token
	for _, part := range b.parts {
		tokens = append(tokens, part.Tokens()...)
	}
	return tokens
}

// IsExpression is carried by the last appended part.
func (b *Builder) IsExpression() bool {
	return len(b.parts) > 0 && b.parts[len(b.parts)-1].IsExpression()
}

// IsEmpty reports whether nothing has been appended.
func (b *Builder) IsEmpty() bool {
	for _, part := range b.parts {
		if !part.IsEmpty() {
			return false
		}
	}
	return true
}

// Size returns the flattened token count.
func (b *Builder) Size() int {
	size := 0
	for _, part := range b.parts {
		size += part.Size()
	}
	return size
}

// Build freezes the builder into an immutable stream.
func (b *Builder) Build() TokenStream {
	parts := make([]TokenStream, len(b.parts))
	copy(parts, b.parts)
	return compositeStream(parts)
}

func (b *Builder) renderTo(r *renderer) {
	compositeStream(b.parts).renderTo(r)
}

type compositeStream []TokenStream

func (c compositeStream) Tokens() []Token {
	var tokens []Token
	for _, part := range c {
		tokens = append(tokens, part.Tokens()...)
	}
	return tokens
}

func (c compositeStream) IsExpression() bool {
	return len(c) > 0 && c[len(c)-1].IsExpression()
}

func (c compositeStream) IsEmpty() bool {
	for _, part := range c {
		if !part.IsEmpty() {
			return false
		}
	}
	return true
}

func (c compositeStream) Size() int {
	size := 0
	for _, part := range c {
		size += part.Size()
	}
	return size
}

func (c compositeStream) renderTo(r *renderer) {
	lastExpression := false
	for _, part := range c {
		if part.IsEmpty() {
			continue
		}
		if lastExpression || part.IsExpression() {
			r.space()
		}
		part.renderTo(r)
		lastExpression = part.IsExpression()
	}
}
