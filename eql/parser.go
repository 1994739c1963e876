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

// Parser parses a read query into its clause structure. The parser mirrors
// the query's surface rather than building a resolved syntax tree: each
// clause is captured as a token stream that transformers recombine without
// re-parsing.
type Parser struct {
	dialect Dialect
	lexemes []lexeme
	pos     int
	stmt    *SelectStatement
}

// NewParser creates a Parser for the given dialect.
func NewParser(dialect Dialect) *Parser {
	return &Parser{dialect: dialect}
}

// Parse parses query text with the portable EQL dialect.
func Parse(query string) (*SelectStatement, error) {
	return NewParser(DialectEQL).Parse(query)
}

// Parse parses the given query text.
func (p *Parser) Parse(query string) (*SelectStatement, error) {

	if strings.TrimSpace(query) == "" {
		return nil, newSyntaxError("query must not be empty", 0, "")
	}

	lexemes, err := lexAll(query)
	if err != nil {
		return nil, err
	}

	p.lexemes = lexemes
	p.pos = 0
	p.stmt = &SelectStatement{dialect: p.dialect}

	switch {
	case p.current().is("SELECT"):
		if err := p.parseSelectClause(); err != nil {
			return nil, err
		}
		if err := p.parseFromClause(); err != nil {
			return nil, err
		}
	case p.current().is("FROM"):
		// from-query form: the selection of the primary alias is implicit
		p.stmt.HasSelect = false
		if err := p.parseFromClause(); err != nil {
			return nil, err
		}
	default:
		return nil, newUnexpectedTokenError(p.current().value, p.current().pos, "SELECT", "FROM")
	}

	if p.current().is("WHERE") {
		p.stmt.where = p.parseVerbatimClause("GROUP", "HAVING", "ORDER")
	}
	if p.current().is("GROUP") {
		stream, err := p.parseByClause("HAVING", "ORDER")
		if err != nil {
			return nil, err
		}
		p.stmt.groupBy = stream
	}
	if p.current().is("HAVING") {
		p.stmt.having = p.parseVerbatimClause("ORDER")
	}
	if p.current().is("ORDER") {
		stream, err := p.parseByClause()
		if err != nil {
			return nil, err
		}
		p.stmt.orderBy = stream
	}

	if p.current().kind != lexEOF {
		return nil, newUnexpectedTokenError(p.current().value, p.current().pos)
	}

	return p.stmt, nil
}

func lexAll(query string) ([]lexeme, *ParseError) {
	lx := newLexer(query)
	var lexemes []lexeme
	for {
		l, err := lx.next()
		if err != nil {
			return nil, err
		}
		lexemes = append(lexemes, l)
		if l.kind == lexEOF {
			return lexemes, nil
		}
	}
}

func (p *Parser) current() lexeme {
	if p.pos >= len(p.lexemes) {
		return lexeme{kind: lexEOF}
	}
	return p.lexemes[p.pos]
}

func (p *Parser) advance() lexeme {
	l := p.current()
	if p.pos < len(p.lexemes) {
		p.pos++
	}
	return l
}

// parseSelectClause consumes SELECT [DISTINCT] and the select-item list up
// to the top-level FROM.
func (p *Parser) parseSelectClause() error {

	p.stmt.HasSelect = true
	p.stmt.selectToken = NewExpression(p.advance().value)

	if p.current().is("DISTINCT") {
		p.stmt.Distinct = true
		p.advance()
	}

	for {
		item, err := p.parseSelectItem()
		if err != nil {
			return err
		}
		p.stmt.Items = append(p.stmt.Items, item)

		if p.current().kind == lexComma {
			p.advance()
			continue
		}
		break
	}

	if !p.current().is("FROM") {
		return newUnexpectedTokenError(p.current().value, p.current().pos, "FROM", ",")
	}
	return nil
}

// parseSelectItem consumes one select-list entry including a trailing alias.
func (p *Parser) parseSelectItem() (SelectItem, error) {

	if p.current().is("NEW") {
		return p.parseConstructorItem()
	}

	builder := NewBuilder()
	depth := 0

	for {
		l := p.current()
		if l.kind == lexEOF {
			break
		}
		if depth == 0 && (l.kind == lexComma || l.is("FROM") || l.is("AS")) {
			break
		}
		switch l.kind {
		case lexLParen:
			depth++
		case lexRParen:
			depth--
		}
		p.emit(builder, p.advance())
	}

	if builder.IsEmpty() {
		return SelectItem{}, newSyntaxError("empty select item", p.current().pos, p.current().value)
	}

	item := SelectItem{stream: builder.Build()}
	if p.current().is("AS") {
		p.advance()
		alias := p.advance()
		if alias.kind != lexIdent {
			return SelectItem{}, newUnexpectedTokenError(alias.value, alias.pos, "alias identifier")
		}
		item.Alias = alias.value
	}
	return item, nil
}

// parseConstructorItem consumes "new pkg.Type(arg, ...)".
func (p *Parser) parseConstructorItem() (SelectItem, error) {

	p.advance() // NEW

	typeName, err := p.parseDottedName()
	if err != nil {
		return SelectItem{}, err
	}

	open := p.advance()
	if open.kind != lexLParen {
		return SelectItem{}, newUnexpectedTokenError(open.value, open.pos, "(")
	}

	args := NewBuilder()
	depth := 1
	for depth > 0 {
		l := p.advance()
		switch l.kind {
		case lexEOF:
			return SelectItem{}, newSyntaxError("unterminated constructor expression", l.pos, "")
		case lexLParen:
			depth++
		case lexRParen:
			depth--
			if depth == 0 {
				continue
			}
		}
		if depth > 0 {
			p.emit(args, l)
		}
	}

	argStream := args.Build()

	stream := NewBuilder()
	stream.Append(TokenNewFunc)
	stream.Append(NewToken(typeName))
	stream.Append(TokenOpenParen)
	stream.AppendInline(argStream)
	stream.Append(TokenCloseParen)

	item := SelectItem{
		stream:          stream.Build(),
		Constructor:     true,
		ConstructorType: typeName,
		ConstructorArgs: argStream,
	}

	if p.current().is("AS") {
		p.advance()
		alias := p.advance()
		if alias.kind != lexIdent {
			return SelectItem{}, newUnexpectedTokenError(alias.value, alias.pos, "alias identifier")
		}
		item.Alias = alias.value
	}
	return item, nil
}

// parseDottedName consumes "ident(.ident)*" and returns the joined name.
func (p *Parser) parseDottedName() (string, error) {

	first := p.advance()
	if first.kind != lexIdent {
		return "", newUnexpectedTokenError(first.value, first.pos, "identifier")
	}

	var b strings.Builder
	b.WriteString(first.value)
	for p.current().kind == lexDot {
		p.advance()
		part := p.advance()
		if part.kind != lexIdent {
			return "", newUnexpectedTokenError(part.value, part.pos, "identifier")
		}
		b.WriteByte('.')
		b.WriteString(part.value)
	}
	return b.String(), nil
}

// parseFromClause consumes FROM, the root entity with its optional alias,
// and any joins up to the next clause keyword.
func (p *Parser) parseFromClause() error {

	builder := NewBuilder()
	builder.Append(NewExpression(p.advance().value)) // FROM

	entity, err := p.parseDottedName()
	if err != nil {
		return err
	}
	builder.AppendExpression(StreamOf(NewToken(entity)))

	if p.current().is("AS") {
		builder.AppendStream(StreamOf(NewExpression(p.advance().value)))
	}
	if p.current().kind == lexIdent {
		alias := p.advance()
		p.stmt.PrimaryAlias = alias.value
		builder.AppendExpression(StreamOf(NewToken(alias.value)))
	}

	// joins and the remainder of the from clause are kept verbatim
	depth := 0
	for {
		l := p.current()
		if l.kind == lexEOF {
			break
		}
		if depth == 0 && (l.is("WHERE") || l.is("GROUP") || l.is("HAVING") || l.is("ORDER")) {
			break
		}
		if l.is("FETCH") && p.dialect == DialectEQL {
			return newSyntaxError("fetch joins are not supported by the EQL dialect", l.pos, l.value)
		}
		switch l.kind {
		case lexLParen:
			depth++
		case lexRParen:
			depth--
		}
		p.emit(builder, p.advance())
	}

	p.stmt.from = builder.Build()
	return nil
}

// parseVerbatimClause copies a clause introduced by the current keyword up
// to one of the stop keywords at nesting depth zero.
func (p *Parser) parseVerbatimClause(stop ...string) TokenStream {

	builder := NewBuilder()
	builder.Append(NewExpression(p.advance().value))

	depth := 0
	for {
		l := p.current()
		if l.kind == lexEOF {
			break
		}
		if depth == 0 && l.kind == lexKeyword && contains(stop, l.keyword) {
			break
		}
		switch l.kind {
		case lexLParen:
			depth++
		case lexRParen:
			depth--
		}
		p.emit(builder, p.advance())
	}

	return builder.Build()
}

// parseByClause handles the two-keyword clause heads GROUP BY and ORDER BY.
func (p *Parser) parseByClause(stop ...string) (TokenStream, error) {

	head := p.advance()
	by := p.advance()
	if !by.is("BY") {
		return nil, newUnexpectedTokenError(by.value, by.pos, "BY")
	}

	builder := NewBuilder()
	builder.Append(NewExpression(head.value + " " + by.value))

	depth := 0
	for {
		l := p.current()
		if l.kind == lexEOF {
			break
		}
		if depth == 0 && l.kind == lexKeyword && contains(stop, l.keyword) {
			break
		}
		switch l.kind {
		case lexLParen:
			depth++
		case lexRParen:
			depth--
		}
		p.emit(builder, p.advance())
	}

	return builder.Build(), nil
}

// emit converts a lexeme into its render token and records bindings.
func (p *Parser) emit(builder *Builder, l lexeme) {
	switch l.kind {
	case lexIdent, lexNumber:
		builder.Append(NewToken(l.value))
	case lexString:
		builder.Append(NewToken("'" + l.value + "'"))
	case lexComma:
		builder.Append(TokenComma)
	case lexDot:
		builder.Append(TokenDot)
	case lexLParen:
		builder.Append(TokenOpenParen)
	case lexRParen:
		builder.Append(TokenCloseParen)
	case lexOperator:
		builder.Append(NewToken(" " + l.value + " "))
	case lexKeyword:
		builder.Append(NewExpression(l.value))
	case lexNamedParam:
		p.stmt.Bindings = append(p.stmt.Bindings, ParameterBinding{Name: l.value})
		builder.Append(NewToken(":" + l.value))
	case lexPositionalParam:
		position := 0
		for _, ch := range l.value {
			position = position*10 + int(ch-'0')
		}
		p.stmt.Bindings = append(p.stmt.Bindings, ParameterBinding{Position: position})
		builder.Append(NewToken("?" + l.value))
	}
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
