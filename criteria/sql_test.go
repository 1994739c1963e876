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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repoql/repoql/eql"
	"github.com/repoql/repoql/method"
	"github.com/repoql/repoql/schema"
)

type Person struct {
	ID        int `eql:"id"`
	Firstname string
	Lastname  string
	Age       int
	Active    bool
	Manager   *Person
	Nicknames []string
}

func derived(t *testing.T, name string) Predicate {
	t.Helper()
	reg := schema.NewRegistry()
	mt, err := reg.Register(Person{})
	require.NoError(t, err)
	tree, err := method.Parse(name, mt, schema.NewPathResolver(reg))
	require.NoError(t, err)
	pred, err := FromTree(tree)
	require.NoError(t, err)
	return pred
}

func compile(t *testing.T, p Predicate) (string, []any) {
	t.Helper()
	c := &Compiler{Alias: "p"}
	stream, args, err := c.Where(p)
	require.NoError(t, err)
	return eql.Render(stream), args
}

func TestCompileDerivedPredicates(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"findByLastname", "p.lastname = ?1"},
		{"findByLastnameNot", "p.lastname <> ?1"},
		{"findByAgeLessThan", "p.age < ?1"},
		{"findByAgeGreaterThanEqual", "p.age >= ?1"},
		{"findByAgeBetween", "p.age between ?1 and ?2"},
		{"findByLastnameStartingWith", "p.lastname like ?1 escape '\\'"},
		{"findByLastnameNotContaining", "p.lastname not like ?1 escape '\\'"},
		{"findByManagerIsNull", "p.manager is null"},
		{"findByManagerIsNotNull", "p.manager is not null"},
		{"findByNicknamesIsEmpty", "p.nicknames is empty"},
		{"findByActiveTrue", "p.active = true"},
		{"findByActiveFalse", "p.active = false"},
		{"findByAgeIn", "p.age in (?1)"},
		{"findByAgeNotIn", "p.age not in (?1)"},
		{
			"findByLastnameStartingWithAndAgeLessThan",
			"p.lastname like ?1 escape '\\' and p.age < ?2",
		},
		{
			"findByLastnameAndAgeLessThanOrActiveTrue",
			"p.lastname = ?1 and p.age < ?2 or p.active = true",
		},
	}
	for _, tc := range cases {
		rendered, args := compile(t, derived(t, tc.name))
		assert.Equal(t, tc.want, rendered, tc.name)
		assert.Empty(t, args, "placeholders carry no inline values")
	}
}

func TestCompileIgnoreCase(t *testing.T) {
	rendered, _ := compile(t, derived(t, "findByLastnameIgnoreCase"))
	assert.Equal(t, "lower(p.lastname) = lower(?1)", rendered)
}

func TestCompileLiteralPatterns(t *testing.T) {
	cases := []struct {
		op      Operator
		value   string
		want    string
		wantArg string
	}{
		{OpStartsWith, "Jo", "p.firstname like ?1 escape '\\'", "Jo%"},
		{OpEndsWith, "hn", "p.firstname like ?1 escape '\\'", "%hn"},
		{OpContains, "oh", "p.firstname like ?1 escape '\\'", "%oh%"},
		{OpStartsWith, "50%", "p.firstname like ?1 escape '\\'", "50\\%%"},
		{OpContains, "a_b", "p.firstname like ?1 escape '\\'", "%a\\_b%"},
	}
	for _, tc := range cases {
		rendered, args := compile(t, Comparison{
			Property: "firstname",
			Op:       tc.op,
			Args:     []Argument{Literal(tc.value)},
		})
		assert.Equal(t, tc.want, rendered)
		require.Len(t, args, 1)
		assert.Equal(t, tc.wantArg, args[0])
	}
}

func TestCompileLiteralIgnoreCase(t *testing.T) {
	rendered, args := compile(t, Comparison{
		Property:   "firstname",
		Op:         OpStartsWith,
		Args:       []Argument{Literal("Jo")},
		IgnoreCase: true,
	})
	assert.Equal(t, "lower(p.firstname) like ?1 escape '\\'", rendered)
	assert.Equal(t, []any{"jo%"}, args)
}

func TestCompileLiteralInExpands(t *testing.T) {
	rendered, args := compile(t, Comparison{
		Property: "age",
		Op:       OpIn,
		Args:     []Argument{Literal([]int{30, 40, 50})},
	})
	assert.Equal(t, "p.age in (?1, ?2, ?3)", rendered)
	assert.Equal(t, []any{30, 40, 50}, args)
}

func TestCompileGroupsNestedDisjunction(t *testing.T) {
	pred := Conjunction(
		Comparison{Property: "active", Op: OpIsTrue},
		Disjunction(
			Comparison{Property: "firstname", Op: Eq, Args: []Argument{Placeholder(1)}},
			Comparison{Property: "lastname", Op: Eq, Args: []Argument{Placeholder(2)}},
		),
	)
	rendered, _ := compile(t, pred)
	assert.Equal(t, "p.active = true and (p.firstname = ?1 or p.lastname = ?2)", rendered)
}

func TestCompileNot(t *testing.T) {
	pred := Not{Operand: Comparison{Property: "active", Op: OpIsTrue}}
	rendered, _ := compile(t, pred)
	assert.Equal(t, "not (p.active = true)", rendered)
}

func TestCompileTrueValueIsEmpty(t *testing.T) {
	rendered, args := compile(t, TrueValue{})
	assert.Empty(t, rendered)
	assert.Empty(t, args)
}

func TestCompileRegexFails(t *testing.T) {
	c := &Compiler{Alias: "p"}
	_, _, err := c.Where(Comparison{
		Property: "lastname",
		Op:       OpRegex,
		Args:     []Argument{Literal(".*")},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be rendered")
}

func TestConjunctionFolds(t *testing.T) {
	assert.IsType(t, TrueValue{}, Conjunction())
	assert.IsType(t, TrueValue{}, Conjunction(TrueValue{}, TrueValue{}))

	single := Comparison{Property: "age", Op: Eq, Args: []Argument{Literal(1)}}
	assert.Equal(t, Predicate(single), Conjunction(TrueValue{}, single))
}
