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
Package repoql turns repository-style query definitions into executable
query text: derived method names, probe entities and declared query
strings all compile down to the same entity-level query language.

# Features

• Derived queries - findByLastnameStartingWithOrderByFirstname becomes
parameterized query text, validated against the entity's properties at
parse time

• Query rewriting - existing select text can be rewritten into its count
form or into a constructor projection without touching the rest of the
statement

• Query by example - the populated fields of a probe entity become
conditions, with configurable string matching, null handling and cycle
detection

• In-memory matching - every predicate also compiles to a matcher for
filtering already loaded entities

• Dynamic sorting - a Sort is merged into existing order by clauses with
property-name validation

# Getting started

	package main

	import (
		"fmt"

		"github.com/repoql/repoql"
	)

	type Person struct {
		ID       int `eql:"id"`
		Lastname string
		Age      int
	}

	func main() {
		engine := repoql.New()
		engine.Register(Person{})

		q, err := engine.Derive(Person{}, "findByLastnameStartingWithOrderByAgeDesc")
		if err != nil {
			panic(err)
		}
		fmt.Println(q.Text)
		// select p from Person p where p.lastname like ?1 escape '\' order by p.age desc
	}

# Packages

• eql - token model, parser, renderer and the count/projection/sort
transformers

• method - derived method name parsing

• criteria - predicate tree, query-text compilation and in-memory
evaluation

• example - query by example

• schema - entity metadata, property resolution and identifier access

• provider - declared queries and the SQLite reference backend

• types - sorting and similarity score normalization
*/
package repoql
