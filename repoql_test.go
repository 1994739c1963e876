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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repoql/repoql/eql"
	"github.com/repoql/repoql/example"
	"github.com/repoql/repoql/method"
	"github.com/repoql/repoql/types"
)

type Person struct {
	ID           int `eql:"id"`
	Firstname    string
	Lastname     string
	EmailAddress string
	Age          int
	Active       bool
}

func newEngine(t *testing.T) *Engine {
	t.Helper()
	e := New(WithDiscardLogger())
	_, err := e.Register(Person{})
	require.NoError(t, err)
	return e
}

func TestDeriveQueries(t *testing.T) {
	e := newEngine(t)

	cases := []struct {
		name string
		text string
		mode method.Mode
		args int
	}{
		{
			"findByLastname",
			"select p from Person p where p.lastname = ?1",
			method.ModeQuery, 1,
		},
		{
			"findAll",
			"select p from Person p",
			method.ModeQuery, 0,
		},
		{
			"findAllByLastnameStartingWithOrderByEmailAddress",
			"select p from Person p where p.lastname like ?1 escape '\\' order by p.emailAddress asc",
			method.ModeQuery, 1,
		},
		{
			"findByAgeBetweenAndActiveTrue",
			"select p from Person p where p.age between ?1 and ?2 and p.active = true",
			method.ModeQuery, 2,
		},
		{
			"countByLastname",
			"select count(p) from Person p where p.lastname = ?1",
			method.ModeCount, 1,
		},
		{
			"existsByEmailAddress",
			"select count(p) from Person p where p.emailAddress = ?1",
			method.ModeExists, 1,
		},
		{
			"deleteByActiveFalse",
			"delete from Person p where p.active = false",
			method.ModeDelete, 0,
		},
	}
	for _, tc := range cases {
		q, err := e.Derive(Person{}, tc.name)
		require.NoError(t, err, tc.name)
		assert.Equal(t, tc.text, q.Text, tc.name)
		assert.Equal(t, tc.mode, q.Mode, tc.name)
		assert.Equal(t, tc.args, q.ArgumentCount, tc.name)
	}
}

func TestDeriveDistinctAndLimit(t *testing.T) {
	e := newEngine(t)

	q, err := e.Derive(Person{}, "findDistinctTop3ByAgeGreaterThan")
	require.NoError(t, err)
	assert.Equal(t, "select distinct p from Person p where p.age > ?1", q.Text)
	assert.True(t, q.Distinct)
	assert.Equal(t, 3, q.Limit)
}

func TestDeriveRejectsUnknownProperty(t *testing.T) {
	e := newEngine(t)
	_, err := e.Derive(Person{}, "findByNickname")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no property matching")
}

func TestRewriteCount(t *testing.T) {
	e := newEngine(t)

	got, err := e.RewriteCount("select p from Person p where p.age > ?1", "")
	require.NoError(t, err)
	assert.Equal(t, "select count(p) from Person p where p.age > ?1", got)

	got, err = e.RewriteCount("select p from Person p", "p.id")
	require.NoError(t, err)
	assert.Equal(t, "select count(p.id) from Person p", got)
}

func TestRewriteDTO(t *testing.T) {
	e := newEngine(t)

	got, err := e.RewriteDTO("select p from Person p", eql.Projection{
		TypeName:   "com.example.PersonDto",
		Properties: []string{"firstname", "lastname"},
	})
	require.NoError(t, err)
	assert.Equal(t,
		"select new com.example.PersonDto(p.firstname, p.lastname) from Person p",
		got)
}

func TestRewriteDTOLeavesConstructorQueries(t *testing.T) {
	e := newEngine(t)

	query := "select new com.example.PersonDto(p.firstname) from Person p"
	got, err := e.RewriteDTO(query, eql.Projection{
		TypeName:   "com.example.PersonDto",
		Properties: []string{"firstname"},
	})
	require.NoError(t, err)
	assert.Equal(t, query, got)
}

func TestApplySort(t *testing.T) {
	e := newEngine(t)

	got, err := e.ApplySort("select p from Person p", types.By("lastname"))
	require.NoError(t, err)
	assert.Equal(t, "select p from Person p order by p.lastname asc", got)

	got, err = e.ApplySort(got, types.NewSort(types.Desc("age")))
	require.NoError(t, err)
	assert.Equal(t, "select p from Person p order by p.lastname asc, p.age desc", got)

	unchanged, err := e.ApplySort("select p from Person p", types.Unsorted())
	require.NoError(t, err)
	assert.Equal(t, "select p from Person p", unchanged)
}

func TestExampleQuery(t *testing.T) {
	e := newEngine(t)

	text, args, err := e.ExampleQuery(example.Of(Person{Lastname: "Doe", Age: 28}))
	require.NoError(t, err)
	assert.Equal(t, "select p from Person p where p.lastname = ?1 and p.age = ?2", text)
	assert.Equal(t, []any{"Doe", 28}, args)
}

func TestExampleQueryEmptyProbe(t *testing.T) {
	e := newEngine(t)

	text, args, err := e.ExampleQuery(example.Of(Person{}))
	require.NoError(t, err)
	assert.Equal(t, "select p from Person p", text)
	assert.Empty(t, args)
}

func TestMatcherFiltersInMemory(t *testing.T) {
	e := newEngine(t)

	pred, err := e.ExamplePredicate(example.OfMatching(
		Person{Lastname: "Do"},
		example.Matching().WithStringMatcher(example.MatchStarting),
	))
	require.NoError(t, err)

	matcher, err := e.Matcher(pred)
	require.NoError(t, err)

	matched, err := matcher.Matches(map[string]any{"lastname": "Doe"})
	require.NoError(t, err)
	assert.True(t, matched)

	matched, err = matcher.Matches(map[string]any{"lastname": "Miller"})
	require.NoError(t, err)
	assert.False(t, matched)
}

func TestEntityInformation(t *testing.T) {
	e := newEngine(t)

	info, err := e.EntityInformation(Person{}, nil)
	require.NoError(t, err)

	id, err := info.ID(Person{ID: 12})
	require.NoError(t, err)
	assert.Equal(t, 12, id)
}
