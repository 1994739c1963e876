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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repoql/repoql/types"
)

func TestSortTransformer(t *testing.T) {
	tests := []struct {
		name  string
		query string
		sort  types.Sort
		want  string
	}{
		{
			name:  "appends order by",
			query: "select u from User u",
			sort:  types.By("lastname"),
			want:  "select u from User u order by u.lastname asc",
		},
		{
			name:  "merges with existing order by",
			query: "select u from User u order by u.firstname asc",
			sort:  types.NewSort(types.Desc("lastname")),
			want:  "select u from User u order by u.firstname asc, u.lastname desc",
		},
		{
			name:  "qualified property stays qualified",
			query: "select u from User u",
			sort:  types.By("address.city"),
			want:  "select u from User u order by address.city asc",
		},
		{
			name:  "ignore case wraps in lower",
			query: "select u from User u",
			sort:  types.NewSort(types.Order{Property: "lastname", IgnoreCase: true}),
			want:  "select u from User u order by lower(u.lastname) asc",
		},
		{
			name:  "unsorted keeps the query unchanged",
			query: "select u from User u",
			sort:  types.Unsorted(),
			want:  "select u from User u",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := Parse(tt.query)
			require.NoError(t, err)

			got, err := SortTransformer{Sort: tt.sort}.Render(stmt)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSortTransformerRejectsInjection(t *testing.T) {
	stmt, err := Parse("select u from User u")
	require.NoError(t, err)

	for _, property := range []string{
		"lastname; drop table users",
		"lower(lastname)",
		"lastname, firstname",
	} {
		_, err := SortTransformer{Sort: types.By(property)}.Render(stmt)
		assert.Error(t, err, property)
	}
}
