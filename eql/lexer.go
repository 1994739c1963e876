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

type lexemeKind int

const (
	lexEOF lexemeKind = iota
	lexIdent
	lexKeyword
	lexNumber
	lexString
	lexComma
	lexDot
	lexLParen
	lexRParen
	lexOperator
	lexNamedParam      // :name
	lexPositionalParam // ?1
)

// lexeme is a raw lexical unit produced by the lexer. Keyword lexemes carry
// the canonical upper-case keyword in addition to the text as written.
type lexeme struct {
	kind    lexemeKind
	value   string
	keyword string
	pos     int
}

func (l lexeme) is(keyword string) bool {
	return l.kind == lexKeyword && l.keyword == keyword
}

// keywords recognized by both query dialects.
var keywords = map[string]struct{}{
	"SELECT": {}, "DISTINCT": {}, "NEW": {}, "FROM": {}, "WHERE": {},
	"GROUP": {}, "BY": {}, "HAVING": {}, "ORDER": {}, "ASC": {}, "DESC": {},
	"AS": {}, "AND": {}, "OR": {}, "NOT": {}, "JOIN": {}, "LEFT": {},
	"RIGHT": {}, "INNER": {}, "OUTER": {}, "FETCH": {}, "ON": {}, "IN": {},
	"IS": {}, "NULL": {}, "LIKE": {}, "BETWEEN": {}, "ESCAPE": {},
	"TRUE": {}, "FALSE": {}, "EMPTY": {}, "MEMBER": {}, "OF": {},
}

type lexer struct {
	input   string
	pos     int
	readPos int
	ch      byte
}

func newLexer(input string) *lexer {
	l := &lexer{input: input}
	l.readChar()
	return l
}

func (l *lexer) next() (lexeme, *ParseError) {
	l.skipWhitespace()

	start := l.pos

	switch l.ch {
	case 0:
		return lexeme{kind: lexEOF, pos: start}, nil
	case ',':
		l.readChar()
		return lexeme{kind: lexComma, value: ",", pos: start}, nil
	case '.':
		l.readChar()
		return lexeme{kind: lexDot, value: ".", pos: start}, nil
	case '(':
		l.readChar()
		return lexeme{kind: lexLParen, value: "(", pos: start}, nil
	case ')':
		l.readChar()
		return lexeme{kind: lexRParen, value: ")", pos: start}, nil
	case '=':
		l.readChar()
		return lexeme{kind: lexOperator, value: "=", pos: start}, nil
	case '+', '-', '*', '/', '%':
		op := string(l.ch)
		l.readChar()
		return lexeme{kind: lexOperator, value: op, pos: start}, nil
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return lexeme{kind: lexOperator, value: ">=", pos: start}, nil
		}
		l.readChar()
		return lexeme{kind: lexOperator, value: ">", pos: start}, nil
	case '<':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return lexeme{kind: lexOperator, value: "<=", pos: start}, nil
		}
		if l.peekChar() == '>' {
			l.readChar()
			l.readChar()
			return lexeme{kind: lexOperator, value: "<>", pos: start}, nil
		}
		l.readChar()
		return lexeme{kind: lexOperator, value: "<", pos: start}, nil
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return lexeme{kind: lexOperator, value: "!=", pos: start}, nil
		}
		return lexeme{}, newLexicalError("unexpected character", start, l.ch)
	case ':':
		l.readChar()
		if !isLetter(l.ch) {
			return lexeme{}, newLexicalError("expected parameter name after ':'", l.pos, l.ch)
		}
		return lexeme{kind: lexNamedParam, value: l.readIdentifier(), pos: start}, nil
	case '?':
		l.readChar()
		if !isDigit(l.ch) {
			return lexeme{}, newLexicalError("expected parameter position after '?'", l.pos, l.ch)
		}
		return lexeme{kind: lexPositionalParam, value: l.readNumber(), pos: start}, nil
	case '\'':
		value, ok := l.readString()
		if !ok {
			return lexeme{}, &ParseError{
				Type:     ErrorTypeUnterminatedString,
				Message:  "unterminated string literal",
				Position: start,
			}
		}
		return lexeme{kind: lexString, value: value, pos: start}, nil
	}

	if isLetter(l.ch) {
		ident := l.readIdentifier()
		if upper := strings.ToUpper(ident); isKeyword(upper) {
			return lexeme{kind: lexKeyword, value: ident, keyword: upper, pos: start}, nil
		}
		return lexeme{kind: lexIdent, value: ident, pos: start}, nil
	}

	if isDigit(l.ch) {
		return lexeme{kind: lexNumber, value: l.readNumber(), pos: start}, nil
	}

	return lexeme{}, newLexicalError("unexpected character", start, l.ch)
}

func isKeyword(upper string) bool {
	_, ok := keywords[upper]
	return ok
}

func (l *lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
}

func (l *lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

func (l *lexer) readIdentifier() string {
	pos := l.pos
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[pos:l.pos]
}

func (l *lexer) readNumber() string {
	pos := l.pos
	for isDigit(l.ch) || l.ch == '.' {
		l.readChar()
	}
	return l.input[pos:l.pos]
}

// readString returns the string body without quotes. SQL-style doubled
// quotes inside the literal are kept verbatim.
func (l *lexer) readString() (string, bool) {
	l.readChar() // opening quote
	pos := l.pos

	for {
		if l.ch == 0 {
			return "", false
		}
		if l.ch == '\'' {
			if l.peekChar() == '\'' {
				l.readChar()
				l.readChar()
				continue
			}
			break
		}
		l.readChar()
	}

	str := l.input[pos:l.pos]
	l.readChar() // closing quote
	return str, true
}

func (l *lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
