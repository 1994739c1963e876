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

package repoql

import (
	"fmt"
	"strings"

	"github.com/repoql/repoql/criteria"
	"github.com/repoql/repoql/eql"
	"github.com/repoql/repoql/example"
	"github.com/repoql/repoql/logger"
	"github.com/repoql/repoql/method"
	"github.com/repoql/repoql/schema"
	"github.com/repoql/repoql/types"
)

// Engine is the main entry point of RepoQL. It owns the entity registry
// and turns repository method names, probes and declared query text into
// executable query strings.
//
// Usage:
//
//	engine := repoql.New()
//	engine.Register(Person{})
//	q, err := engine.Derive(Person{}, "findByLastnameStartingWithOrderByFirstname")
//	// q.Text: select p from Person p where p.lastname like ?1 escape '\' order by p.firstname asc
type Engine struct {
	registry *schema.Registry
	resolver *schema.PathResolver
	dialect  eql.Dialect
	escape   criteria.EscapeCharacter
}

// New creates an Engine, configured through options.
func New(options ...Option) *Engine {
	e := &Engine{
		registry: schema.NewRegistry(),
		dialect:  eql.DialectEQL,
		escape:   criteria.DefaultEscape,
	}
	for _, option := range options {
		option(e)
	}
	e.resolver = schema.NewPathResolver(e.registry)
	return e
}

// Register resolves and caches entity metadata.
func (e *Engine) Register(entity any) (*schema.ManagedType, error) {
	return e.registry.Register(entity)
}

// Registry exposes the engine's entity registry.
func (e *Engine) Registry() *schema.Registry { return e.registry }

// Clear drops all cached entity metadata.
func (e *Engine) Clear() { e.registry.Clear() }

// DerivedQuery is the output of Derive: the query text plus the execution
// hints the text cannot carry.
type DerivedQuery struct {
	// Text is the derived query in entity-level query language, with ?N
	// parameter placeholders.
	Text string
	// Mode says what the method does with the matches.
	Mode method.Mode
	// Distinct mirrors a Distinct marker in the method name.
	Distinct bool
	// Limit caps the result count; 0 means unlimited.
	Limit int
	// ArgumentCount is the number of bind arguments the text expects.
	ArgumentCount int
}

// Derive turns a repository method name into query text for the entity.
func (e *Engine) Derive(entity any, name string) (*DerivedQuery, error) {
	mt, err := e.registry.Register(entity)
	if err != nil {
		return nil, err
	}

	tree, err := method.Parse(name, mt, e.resolver)
	if err != nil {
		return nil, err
	}

	pred, err := criteria.FromTree(tree)
	if err != nil {
		return nil, err
	}

	alias := aliasOf(mt.Name())
	where, _, err := (&criteria.Compiler{Alias: alias, Escape: e.escape}).Where(pred)
	if err != nil {
		return nil, err
	}

	text, err := e.assemble(tree, mt.Name(), alias, where)
	if err != nil {
		return nil, err
	}

	logger.Debug("derived %s from %s.%s", text, mt.Name(), name)
	return &DerivedQuery{
		Text:          text,
		Mode:          tree.Subject.Mode,
		Distinct:      tree.Subject.Distinct,
		Limit:         tree.Subject.Limit,
		ArgumentCount: tree.NumberOfArguments(),
	}, nil
}

func (e *Engine) assemble(tree *method.Tree, entity, alias string, where eql.TokenStream) (string, error) {
	b := eql.NewBuilder()

	switch tree.Subject.Mode {
	case method.ModeDelete:
		b.Append(eql.NewExpression("delete"))
	case method.ModeCount, method.ModeExists:
		b.Append(eql.ExprSelect, eql.TokenCountFunc, eql.NewToken(alias), eql.TokenCloseParen)
	default:
		b.Append(eql.ExprSelect)
		if tree.Subject.Distinct {
			b.Append(eql.ExprDistinct)
		}
		b.Append(eql.NewExpression(alias))
	}
	b.AppendExpression(eql.StreamOf(eql.ExprFrom, eql.NewToken(entity), eql.NewExpression(alias)))

	if !where.IsEmpty() {
		b.AppendExpression(eql.StreamOf(eql.ExprWhere))
		b.AppendExpression(where)
	}

	text := eql.Render(b.Build())

	if tree.Sort.IsSorted() && tree.Subject.Mode == method.ModeQuery {
		return e.ApplySort(text, tree.Sort)
	}
	return text, nil
}

// RewriteCount turns a select query into its count form. The projection
// overrides what gets counted; leave it empty to let the transformer pick
// the alias or first select item.
func (e *Engine) RewriteCount(query, projection string) (string, error) {
	stmt, err := e.parse(query)
	if err != nil {
		return "", err
	}
	return eql.CountTransformer{Projection: projection}.Render(stmt)
}

// RewriteDTO rewrites a query's select list into a constructor expression
// for the target projection, expanding a root alias into its properties.
func (e *Engine) RewriteDTO(query string, target eql.Projection) (string, error) {
	stmt, err := e.parse(query)
	if err != nil {
		return "", err
	}
	t := eql.DtoTransformer{Target: target}
	if !t.CanRewrite(stmt) {
		return query, nil
	}
	return t.Render(stmt), nil
}

// ApplySort appends or extends the query's order by clause.
func (e *Engine) ApplySort(query string, sort types.Sort) (string, error) {
	if !sort.IsSorted() {
		return query, nil
	}
	stmt, err := e.parse(query)
	if err != nil {
		return "", err
	}
	return eql.SortTransformer{Sort: sort}.Render(stmt)
}

// ExamplePredicate builds a predicate from a probe entity.
func (e *Engine) ExamplePredicate(ex example.Example) (criteria.Predicate, error) {
	return example.Predicate(ex, e.registry)
}

// ExampleQuery compiles a probe into query text with literal arguments
// extracted into the returned slice.
func (e *Engine) ExampleQuery(ex example.Example) (string, []any, error) {
	mt, err := e.registry.Register(ex.Probe)
	if err != nil {
		return "", nil, err
	}

	pred, err := example.Predicate(ex, e.registry)
	if err != nil {
		return "", nil, err
	}

	alias := aliasOf(mt.Name())
	where, args, err := (&criteria.Compiler{Alias: alias, Escape: e.escape}).Where(pred)
	if err != nil {
		return "", nil, err
	}

	b := eql.NewBuilder()
	b.Append(eql.ExprSelect, eql.NewExpression(alias))
	b.AppendExpression(eql.StreamOf(eql.ExprFrom, eql.NewToken(mt.Name()), eql.NewExpression(alias)))
	if !where.IsEmpty() {
		b.AppendExpression(eql.StreamOf(eql.ExprWhere))
		b.AppendExpression(where)
	}
	return eql.Render(b.Build()), args, nil
}

// Matcher compiles a predicate for in-memory matching, e.g. to filter
// already loaded entities by example.
func (e *Engine) Matcher(pred criteria.Predicate) (*criteria.Evaluator, error) {
	return criteria.NewEvaluator(pred)
}

// EntityInformation returns identifier access for the entity with the
// given proxy resolver; pass nil when proxies are not in play.
func (e *Engine) EntityInformation(entity any, proxy schema.ProxyResolver) (*schema.EntityInformation, error) {
	mt, err := e.registry.Register(entity)
	if err != nil {
		return nil, err
	}
	return schema.NewEntityInformation(mt, proxy), nil
}

func (e *Engine) parse(query string) (*eql.SelectStatement, error) {
	stmt, err := eql.NewParser(e.dialect).Parse(query)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", query, err)
	}
	return stmt, nil
}

// aliasOf derives the conventional query alias from an entity name, e.g.
// Person becomes p.
func aliasOf(entity string) string {
	if entity == "" {
		return "x"
	}
	return strings.ToLower(entity[:1])
}
