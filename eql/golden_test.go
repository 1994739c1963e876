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
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/repoql/repoql/types"
)

// renderReport turns input/output pairs into a stable textual snapshot.
func renderReport(pairs [][2]string) []byte {
	var sb strings.Builder
	for _, p := range pairs {
		sb.WriteString(p[0])
		sb.WriteString("\n  => ")
		sb.WriteString(p[1])
		sb.WriteString("\n")
	}
	return []byte(sb.String())
}

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestGoldenNormalize(t *testing.T) {
	queries := []string{
		"select u from User u",
		"select u from User u where u.lastname = :lastname and u.age >= ?1",
		"select u.role from User u group by u.role having count(u) > 5",
		"select u from User u order by u.lastname desc, u.firstname asc",
		"select a from User u join u.addresses a where a.city = 'Dresden'",
		"select new com.example.UserDto(u.firstname, u.lastname) from User u",
		"select u from User u where u.age between 18 and 65",
	}

	var pairs [][2]string
	for _, q := range queries {
		stmt, err := Parse(q)
		require.NoError(t, err)
		pairs = append(pairs, [2]string{q, stmt.Render()})
	}
	newGoldie(t).Assert(t, "normalize", renderReport(pairs))
}

func TestGoldenCount(t *testing.T) {
	cases := []struct {
		query      string
		projection string
	}{
		{query: "select u from User u"},
		{query: "select u from User u where u.lastname = :lastname"},
		{query: "select u from User u order by u.lastname asc"},
		{query: "select distinct u.firstname, u.lastname from User u"},
		{query: "select distinct new com.example.Dto(u.a, u.b) from User u"},
		{query: "select u from User u", projection: "u.id"},
	}

	var pairs [][2]string
	for _, tc := range cases {
		stmt, err := Parse(tc.query)
		require.NoError(t, err)
		out, err := CountTransformer{Projection: tc.projection}.Render(stmt)
		require.NoError(t, err)
		pairs = append(pairs, [2]string{tc.query, out})
	}
	newGoldie(t).Assert(t, "count", renderReport(pairs))
}

func TestGoldenDTO(t *testing.T) {
	target := Projection{
		TypeName:   "com.example.PersonDto",
		Properties: []string{"firstname", "lastname"},
	}
	queries := []string{
		"select p from Person p",
		"select p.lastname, p.firstname from Person p",
		"select p from Person p where p.age > 18 order by p.lastname asc",
		"select distinct p from Person p",
	}

	var pairs [][2]string
	for _, q := range queries {
		stmt, err := Parse(q)
		require.NoError(t, err)
		pairs = append(pairs, [2]string{q, DtoTransformer{Target: target}.Render(stmt)})
	}
	newGoldie(t).Assert(t, "dto", renderReport(pairs))
}

func TestGoldenSort(t *testing.T) {
	cases := []struct {
		query string
		sort  types.Sort
	}{
		{
			query: "select u from User u",
			sort:  types.NewSort(types.Asc("lastname")),
		},
		{
			query: "select u from User u order by u.firstname asc",
			sort:  types.NewSort(types.Desc("lastname")),
		},
		{
			query: "select u from User u where u.age > 18",
			sort:  types.NewSort(types.Desc("lastname"), types.Asc("firstname")),
		},
	}

	var pairs [][2]string
	for _, tc := range cases {
		stmt, err := Parse(tc.query)
		require.NoError(t, err)
		out, err := SortTransformer{Sort: tc.sort}.Render(stmt)
		require.NoError(t, err)
		pairs = append(pairs, [2]string{tc.query, out})
	}
	newGoldie(t).Assert(t, "sort", renderReport(pairs))
}
