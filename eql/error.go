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
	"errors"
	"fmt"
	"strings"
)

// ErrorType classifies parse and transform failures.
type ErrorType int

const (
	ErrorTypeSyntax ErrorType = iota
	ErrorTypeLexical
	ErrorTypeUnexpectedToken
	ErrorTypeMissingToken
	ErrorTypeUnterminatedString
	ErrorTypeTransform
)

// Transform-stage sentinel errors. These surface query-authoring mistakes at
// metadata-build time, before any query is handed to a provider.
var (
	// ErrMissingAlias is raised when a count rewrite needs a primary select
	// alias and the query does not declare one.
	ErrMissingAlias = errors.New("no primary alias present")

	// ErrConstructorCount is raised when a DISTINCT count selection would
	// wrap a constructor expression without a primary alias to substitute.
	// It is an ErrMissingAlias for errors.Is.
	ErrConstructorCount = fmt.Errorf("%w: distinct count over a constructor expression needs one to substitute", ErrMissingAlias)
)

// ParseError is a structured parse failure with position and expectation
// context.
type ParseError struct {
	Type     ErrorType
	Message  string
	Position int
	Line     int
	Column   int
	Token    string
	Expected []string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.typeName(), e.Message))

	if e.Line > 0 && e.Column > 0 {
		b.WriteString(fmt.Sprintf(" at line %d, column %d", e.Line, e.Column))
	} else if e.Position >= 0 {
		b.WriteString(fmt.Sprintf(" at position %d", e.Position))
	}

	if e.Token != "" {
		b.WriteString(fmt.Sprintf(" (found '%s')", e.Token))
	}

	if len(e.Expected) > 0 {
		b.WriteString(fmt.Sprintf(", expected: %s", strings.Join(e.Expected, ", ")))
	}

	return b.String()
}

func (e *ParseError) typeName() string {
	switch e.Type {
	case ErrorTypeSyntax:
		return "SYNTAX_ERROR"
	case ErrorTypeLexical:
		return "LEXICAL_ERROR"
	case ErrorTypeUnexpectedToken:
		return "UNEXPECTED_TOKEN"
	case ErrorTypeMissingToken:
		return "MISSING_TOKEN"
	case ErrorTypeUnterminatedString:
		return "UNTERMINATED_STRING"
	case ErrorTypeTransform:
		return "TRANSFORM_ERROR"
	default:
		return "UNKNOWN_ERROR"
	}
}

func newSyntaxError(message string, position int, token string, expected ...string) *ParseError {
	return &ParseError{
		Type:     ErrorTypeSyntax,
		Message:  message,
		Position: position,
		Token:    token,
		Expected: expected,
	}
}

func newUnexpectedTokenError(found string, position int, expected ...string) *ParseError {
	return &ParseError{
		Type:     ErrorTypeUnexpectedToken,
		Message:  fmt.Sprintf("unexpected token '%s'", found),
		Position: position,
		Token:    found,
		Expected: expected,
	}
}

func newLexicalError(message string, position int, ch byte) *ParseError {
	return &ParseError{
		Type:     ErrorTypeLexical,
		Message:  message,
		Position: position,
		Token:    string(ch),
	}
}
