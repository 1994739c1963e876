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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountTransformer(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		projection string
		want       string
	}{
		{
			name:  "root alias selection",
			query: "select u from User u",
			want:  "select count(u) from User u",
		},
		{
			name:  "where clause is carried verbatim",
			query: "select u from User u where u.lastname = :lastname",
			want:  "select count(u) from User u where u.lastname = :lastname",
		},
		{
			name:  "order by is dropped",
			query: "select u from User u order by u.lastname asc",
			want:  "select count(u) from User u",
		},
		{
			name:  "group by and having carried verbatim",
			query: "select u.role from User u group by u.role having count(u) > 5",
			want:  "select count(u) from User u group by u.role having count(u) > 5",
		},
		{
			name:  "distinct counts the select items",
			query: "select distinct u.firstname, u.lastname from User u",
			want:  "select count(distinct u.firstname, u.lastname) from User u",
		},
		{
			name:  "distinct constructor falls back to primary alias",
			query: "select distinct new com.example.Dto(u.a, u.b) from User u",
			want:  "select count(distinct u) from User u",
		},
		{
			name:       "explicit projection wins",
			query:      "select u from User u",
			projection: "u.id",
			want:       "select count(u.id) from User u",
		},
		{
			name:       "explicit projection keeps distinct",
			query:      "select distinct u from User u",
			projection: "u.id",
			want:       "select count(distinct u.id) from User u",
		},
		{
			name:  "no alias falls back to first select item",
			query: "select u.lastname from User",
			want:  "select count(u.lastname) from User",
		},
		{
			name:  "from query uses the primary alias",
			query: "from Person p where p.active = true",
			want:  "select count(p) from Person p where p.active = true",
		},
		{
			name:  "from query without alias synthesizes one",
			query: "from Person",
			want:  "select count(__) from Person as __",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := Parse(tt.query)
			require.NoError(t, err)

			got, err := CountTransformer{Projection: tt.projection}.Render(stmt)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCountTransformerClauseInvariance(t *testing.T) {
	query := "select u from User u where u.age > 18 group by u.role having count(u) > 2"
	stmt, err := Parse(query)
	require.NoError(t, err)

	count, err := CountTransformer{}.Render(stmt)
	require.NoError(t, err)

	// everything after the from clause must be byte-identical to the source
	wantTail := "from User u where u.age > 18 group by u.role having count(u) > 2"
	assert.True(t, strings.HasSuffix(count, wantTail), count)
	assert.True(t, strings.HasSuffix(stmt.Render(), wantTail))
}

func TestCountTransformerConstructorWithoutAlias(t *testing.T) {
	stmt, err := Parse("select distinct new com.example.Dto(u.a) from User")
	require.NoError(t, err)

	_, err = CountTransformer{}.Render(stmt)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConstructorCount)
	assert.ErrorIs(t, err, ErrMissingAlias)
}

func TestCountTransformerIsRepeatable(t *testing.T) {
	stmt, err := Parse("select u from User u where u.age > :age")
	require.NoError(t, err)

	first, err := CountTransformer{}.Render(stmt)
	require.NoError(t, err)
	second, err := CountTransformer{}.Render(stmt)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
