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

package criteria

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/spf13/cast"
)

// Evaluator matches entities in memory against a predicate. The predicate
// is compiled once into an expr program; Matches runs it against a
// property environment, typically produced by EnvOf.
//
// Like conditions are evaluated as plain substring checks: % and _
// wildcards in the operand are not interpreted. Derived and
// query-by-example predicates only ever produce prefix, suffix, substring
// and exact shapes, which the dedicated operators cover; hand-built
// OpLike predicates carrying wildcard patterns match differently here
// than in rendered query text.
type Evaluator struct {
	program *vm.Program
	source  string
}

// NewEvaluator compiles the predicate. Placeholder arguments reference the
// args passed to Matches; literal arguments are baked into the program's
// parameter table.
func NewEvaluator(p Predicate) (*Evaluator, error) {
	st := &evalState{params: map[string]any{}}
	source, err := st.compile(p)
	if err != nil {
		return nil, err
	}

	program, err := expr.Compile(source, evalOptions(st.params)...)
	if err != nil {
		return nil, fmt.Errorf("compile matcher %q: %w", source, err)
	}
	return &Evaluator{program: program, source: source}, nil
}

// Source returns the compiled expression text, which is handy in logs.
func (e *Evaluator) Source() string { return e.source }

// Matches runs the program against the property environment. Positional
// placeholders resolve against args, 1-based.
func (e *Evaluator) Matches(env map[string]any, args ...any) (bool, error) {
	runEnv := map[string]any{"args": args}
	for k, v := range env {
		runEnv[k] = v
	}
	out, err := expr.Run(e.program, runEnv)
	if err != nil {
		return false, fmt.Errorf("evaluate matcher: %w", err)
	}
	matched, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("matcher yielded %T, want bool", out)
	}
	return matched, nil
}

func evalOptions(params map[string]any) []expr.Option {
	return []expr.Option{
		expr.AllowUndefinedVariables(),
		expr.Function("param", func(args ...any) (any, error) {
			return params[cast.ToString(args[0])], nil
		}),
		expr.Function("strHasPrefix", func(args ...any) (any, error) {
			return strings.HasPrefix(cast.ToString(args[0]), cast.ToString(args[1])), nil
		}),
		expr.Function("strHasSuffix", func(args ...any) (any, error) {
			return strings.HasSuffix(cast.ToString(args[0]), cast.ToString(args[1])), nil
		}),
		expr.Function("strContains", func(args ...any) (any, error) {
			return strings.Contains(cast.ToString(args[0]), cast.ToString(args[1])), nil
		}),
		expr.Function("strLower", func(args ...any) (any, error) {
			return strings.ToLower(cast.ToString(args[0])), nil
		}),
		expr.Function("strMatches", func(args ...any) (any, error) {
			re, err := regexp.Compile(cast.ToString(args[1]))
			if err != nil {
				return nil, err
			}
			return re.MatchString(cast.ToString(args[0])), nil
		}),
		expr.Function("isEmptyValue", func(args ...any) (any, error) {
			if args[0] == nil {
				return true, nil
			}
			v := reflect.ValueOf(args[0])
			switch v.Kind() {
			case reflect.Slice, reflect.Map, reflect.String:
				return v.Len() == 0, nil
			default:
				return v.IsZero(), nil
			}
		}),
	}
}

type evalState struct {
	params map[string]any
	next   int
}

func (st *evalState) compile(p Predicate) (string, error) {
	switch node := p.(type) {
	case TrueValue:
		return "true", nil
	case Comparison:
		return st.comparison(node)
	case And:
		return st.junction(node.Operands, " and ")
	case Or:
		return st.junction(node.Operands, " or ")
	case Not:
		inner, err := st.compile(node.Operand)
		if err != nil {
			return "", err
		}
		return "not (" + inner + ")", nil
	default:
		return "", fmt.Errorf("unknown predicate node %T", p)
	}
}

func (st *evalState) junction(operands []Predicate, op string) (string, error) {
	parts := make([]string, 0, len(operands))
	for _, operand := range operands {
		inner, err := st.compile(operand)
		if err != nil {
			return "", err
		}
		parts = append(parts, "("+inner+")")
	}
	return strings.Join(parts, op), nil
}

func (st *evalState) comparison(cmp Comparison) (string, error) {
	prop := cmp.Property
	if cmp.IgnoreCase {
		prop = "strLower(" + prop + ")"
	}

	arg := func(idx int) string {
		a := cmp.Args[idx]
		ref := st.argRef(a)
		if cmp.IgnoreCase {
			return "strLower(" + ref + ")"
		}
		return ref
	}

	switch cmp.Op {
	case Eq:
		return prop + " == " + arg(0), nil
	case Ne:
		return prop + " != " + arg(0), nil
	case Lt:
		return prop + " < " + arg(0), nil
	case Le:
		return prop + " <= " + arg(0), nil
	case Gt:
		return prop + " > " + arg(0), nil
	case Ge:
		return prop + " >= " + arg(0), nil
	case OpBetween:
		return prop + " >= " + arg(0) + " and " + prop + " <= " + arg(1), nil
	case OpStartsWith:
		return "strHasPrefix(" + prop + ", " + arg(0) + ")", nil
	case OpEndsWith:
		return "strHasSuffix(" + prop + ", " + arg(0) + ")", nil
	case OpContains, OpLike:
		return "strContains(" + prop + ", " + arg(0) + ")", nil
	case OpNotContains, OpNotLike:
		return "not strContains(" + prop + ", " + arg(0) + ")", nil
	case OpIn:
		return prop + " in " + arg(0), nil
	case OpNotIn:
		return "not (" + prop + " in " + arg(0) + ")", nil
	case OpIsNull:
		return cmp.Property + " == nil", nil
	case OpNotNull:
		return cmp.Property + " != nil", nil
	case OpIsEmpty:
		return "isEmptyValue(" + cmp.Property + ")", nil
	case OpNotEmpty:
		return "not isEmptyValue(" + cmp.Property + ")", nil
	case OpIsTrue:
		return cmp.Property + " == true", nil
	case OpIsFalse:
		return cmp.Property + " == false", nil
	case OpRegex:
		return "strMatches(" + prop + ", " + arg(0) + ")", nil
	default:
		return "", fmt.Errorf("property %s: unsupported operator %s", cmp.Property, cmp.Op)
	}
}

// argRef returns the expression referencing an argument: positional
// placeholders read the runtime args slice, literals are registered in the
// parameter table under a generated key.
func (st *evalState) argRef(a Argument) string {
	if !a.IsLiteral() {
		return fmt.Sprintf("args[%d]", a.Position-1)
	}
	key := fmt.Sprintf("p%d", st.next)
	st.next++
	st.params[key] = a.Value
	return fmt.Sprintf("param(%q)", key)
}
