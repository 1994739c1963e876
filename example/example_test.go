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

package example

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repoql/repoql/criteria"
	"github.com/repoql/repoql/eql"
	"github.com/repoql/repoql/schema"
)

type Address struct {
	City    string
	ZipCode string
}

type Person struct {
	ID        int `eql:"id"`
	Firstname string
	Lastname  string
	Age       int
	Address   Address `eql:"embedded"`
	Manager   *Person
	Nicknames []string
}

func render(t *testing.T, ex Example) (string, []any) {
	t.Helper()
	pred, err := Predicate(ex, schema.NewRegistry())
	require.NoError(t, err)
	c := &criteria.Compiler{Alias: "p"}
	stream, args, err := c.Where(pred)
	require.NoError(t, err)
	return eql.Render(stream), args
}

func TestPredicateFromProbe(t *testing.T) {
	rendered, args := render(t, Of(Person{Firstname: "John", Age: 28}))
	assert.Equal(t, "p.firstname = ?1 and p.age = ?2", rendered)
	assert.Equal(t, []any{"John", 28}, args)
}

func TestEmptyProbeMatchesEverything(t *testing.T) {
	pred, err := Predicate(Of(Person{}), schema.NewRegistry())
	require.NoError(t, err)
	assert.IsType(t, criteria.TrueValue{}, pred)
}

func TestMatchAnyCombinesWithOr(t *testing.T) {
	rendered, _ := render(t, OfMatching(
		Person{Firstname: "John", Lastname: "Doe"},
		MatchingAny(),
	))
	assert.Equal(t, "p.firstname = ?1 or p.lastname = ?2", rendered)
}

func TestStringMatchers(t *testing.T) {
	cases := []struct {
		matcher StringMatcher
		want    string
		wantArg string
	}{
		{MatchExact, "p.firstname = ?1", "Jo"},
		{MatchStarting, "p.firstname like ?1 escape '\\'", "Jo%"},
		{MatchEnding, "p.firstname like ?1 escape '\\'", "%Jo"},
		{MatchContaining, "p.firstname like ?1 escape '\\'", "%Jo%"},
	}
	for _, tc := range cases {
		rendered, args := render(t, OfMatching(
			Person{Firstname: "Jo"},
			Matching().WithStringMatcher(tc.matcher),
		))
		assert.Equal(t, tc.want, rendered)
		assert.Equal(t, []any{tc.wantArg}, args)
	}
}

func TestIgnoreCaseLowersPatterns(t *testing.T) {
	rendered, args := render(t, OfMatching(
		Person{Firstname: "Jo"},
		Matching().WithStringMatcher(MatchStarting).WithIgnoreCase(),
	))
	assert.Equal(t, "lower(p.firstname) like ?1 escape '\\'", rendered)
	assert.Equal(t, []any{"jo%"}, args)
}

func TestPerPropertySpecifier(t *testing.T) {
	ignore := true
	rendered, args := render(t, OfMatching(
		Person{Firstname: "Jo", Lastname: "Doe"},
		Matching().WithMatcher("firstname", PropertySpecifier{
			Matcher:    MatchContaining,
			IgnoreCase: &ignore,
		}),
	))
	assert.Equal(t, "lower(p.firstname) like ?1 escape '\\' and p.lastname = ?2", rendered)
	assert.Equal(t, []any{"%jo%", "Doe"}, args)
}

func TestTransformerRewritesValue(t *testing.T) {
	rendered, args := render(t, OfMatching(
		Person{Lastname: "doe"},
		Matching().WithTransformer("lastname", func(v any) any {
			return strings.ToUpper(v.(string))
		}),
	))
	assert.Equal(t, "p.lastname = ?1", rendered)
	assert.Equal(t, []any{"DOE"}, args)
}

func TestTransformerReturningNilSkips(t *testing.T) {
	pred, err := Predicate(OfMatching(
		Person{Lastname: "doe"},
		Matching().WithTransformer("lastname", func(any) any { return nil }),
	), schema.NewRegistry())
	require.NoError(t, err)
	assert.IsType(t, criteria.TrueValue{}, pred)
}

func TestIgnoredPaths(t *testing.T) {
	rendered, _ := render(t, OfMatching(
		Person{Firstname: "John", Lastname: "Doe"},
		Matching().WithIgnorePaths("lastname"),
	))
	assert.Equal(t, "p.firstname = ?1", rendered)
}

func TestEmbeddedAndAssociationPaths(t *testing.T) {
	rendered, args := render(t, Of(Person{
		Address: Address{ZipCode: "69115"},
		Manager: &Person{Firstname: "Jane"},
	}))
	assert.Equal(t, "p.address.zipCode = ?1 and p.manager.firstname = ?2", rendered)
	assert.Equal(t, []any{"69115", "Jane"}, args)
}

func TestIncludeNullValues(t *testing.T) {
	rendered, _ := render(t, OfMatching(
		Person{Firstname: "John"},
		Matching().WithIncludeNullValues(),
	))
	assert.Equal(t, "p.firstname = ?1 and p.manager is null", rendered)
}

func TestCollectionsDoNotParticipate(t *testing.T) {
	rendered, _ := render(t, Of(Person{
		Firstname: "John",
		Nicknames: []string{"JD"},
	}))
	assert.Equal(t, "p.firstname = ?1", rendered)
}

func TestCyclicProbeFails(t *testing.T) {
	probe := &Person{Firstname: "John"}
	probe.Manager = probe

	_, err := Predicate(Of(probe), schema.NewRegistry())
	require.ErrorIs(t, err, ErrCyclicReference)
}

func TestDeepProbeWithoutCycleSucceeds(t *testing.T) {
	probe := &Person{
		Firstname: "John",
		Manager:   &Person{Firstname: "Jane", Manager: &Person{Firstname: "Jim"}},
	}
	rendered, _ := render(t, Of(probe))
	assert.Equal(t,
		"p.firstname = ?1 and p.manager.firstname = ?2 and p.manager.manager.firstname = ?3",
		rendered)
}

func TestMatcherCopiesAreIndependent(t *testing.T) {
	base := Matching().WithIgnorePaths("lastname")
	derived := base.WithIgnorePaths("firstname")

	assert.True(t, base.IsIgnoredPath("lastname"))
	assert.False(t, base.IsIgnoredPath("firstname"))
	assert.True(t, derived.IsIgnoredPath("firstname"))
}
