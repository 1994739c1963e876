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
)

func TestBindingArity(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  int
	}{
		{
			name:  "no parameters",
			query: "select u from User u",
			want:  0,
		},
		{
			name:  "positional",
			query: "select u from User u where u.firstname = ?1 and u.age > ?2",
			want:  2,
		},
		{
			name:  "repeated positional counts once",
			query: "select u from User u where u.firstname = ?1 or u.lastname = ?1",
			want:  1,
		},
		{
			name:  "named",
			query: "select u from User u where u.firstname = :first and u.lastname = :last",
			want:  2,
		},
		{
			name:  "repeated named counts once",
			query: "select u from User u where u.firstname = :name or u.lastname = :name",
			want:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := Parse(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, stmt.BindingArity())
		})
	}
}

func TestValidateBindings(t *testing.T) {
	t.Run("contiguous positional", func(t *testing.T) {
		stmt, err := Parse("select u from User u where u.a = ?1 and u.b = ?2")
		require.NoError(t, err)
		assert.NoError(t, stmt.ValidateBindings())
	})

	t.Run("gap in positional", func(t *testing.T) {
		stmt, err := Parse("select u from User u where u.a = ?1 and u.b = ?3")
		require.NoError(t, err)
		err = stmt.ValidateBindings()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "?2 is missing")
	})

	t.Run("mixed styles", func(t *testing.T) {
		stmt, err := Parse("select u from User u where u.a = ?1 and u.b = :b")
		require.NoError(t, err)
		err = stmt.ValidateBindings()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "mixes named and positional")
	})
}
