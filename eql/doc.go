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

/*
Package eql provides the query-language toolkit of RepoQL: a token model,
a clause-structure parser, and transformers that rewrite parsed queries
into derived variants.

# Core Features

• Token Model - immutable query tokens with an inline/expression distinction
driving whitespace insertion during rendering

• Token Streams - composable ordered sequences of tokens and nested streams
with separator-aware concatenation

• Clause Parser - parses SELECT/FROM/WHERE/GROUP BY/HAVING/ORDER BY into
per-clause token streams for two dialects, a portable EQL subset and a
provider-flavored JPQL superset

• Count Transformer - rewrites a read query into its COUNT variant without
re-parsing, including DISTINCT handling and alias fallback

• DTO Transformer - rewrites a selection list into a constructor-call
expression for DTO materialization

• Sort Transformer - merges a dynamic Sort into the ORDER BY clause with
injection-safe property validation

# Usage

	stmt, err := eql.Parse("SELECT u FROM User u WHERE u.age > :age")
	if err != nil {
		// syntax errors carry position and expectation context
	}

	count, err := eql.CountTransformer{}.Render(stmt)
	// "SELECT count(u) FROM User u WHERE u.age > :age"

All transformations are deterministic, synchronous and stateless; parse
results are immutable and safe for concurrent use.
*/
package eql
