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

// Package method parses derived repository method names such as
// findDistinctByLastnameStartingWithOrderByEmailAddressDesc into a
// structured condition tree.
package method

import (
	"strings"

	"github.com/repoql/repoql/schema"
)

// PartType is the comparison operator encoded in a condition fragment's
// keyword suffix.
type PartType int

const (
	Between PartType = iota
	IsNotNull
	IsNull
	LessThan
	LessThanEqual
	GreaterThan
	GreaterThanEqual
	Before
	After
	NotLike
	Like
	StartingWith
	EndingWith
	IsNotEmpty
	IsEmpty
	NotContaining
	Containing
	NotIn
	In
	Regex
	True
	False
	NegatingSimpleProperty
	SimpleProperty
)

// partTypeNames doubles as the String table and the declaration order used
// for keyword matching. More specific keywords come first so that e.g.
// "IsNotNull" is never claimed by "IsNull" or "NotNull" by "Null".
var partTypeNames = map[PartType]string{
	Between:                "BETWEEN",
	IsNotNull:              "IS_NOT_NULL",
	IsNull:                 "IS_NULL",
	LessThan:               "LESS_THAN",
	LessThanEqual:          "LESS_THAN_EQUAL",
	GreaterThan:            "GREATER_THAN",
	GreaterThanEqual:       "GREATER_THAN_EQUAL",
	Before:                 "BEFORE",
	After:                  "AFTER",
	NotLike:                "NOT_LIKE",
	Like:                   "LIKE",
	StartingWith:           "STARTING_WITH",
	EndingWith:             "ENDING_WITH",
	IsNotEmpty:             "IS_NOT_EMPTY",
	IsEmpty:                "IS_EMPTY",
	NotContaining:          "NOT_CONTAINING",
	Containing:             "CONTAINING",
	NotIn:                  "NOT_IN",
	In:                     "IN",
	Regex:                  "REGEX",
	True:                   "TRUE",
	False:                  "FALSE",
	NegatingSimpleProperty: "NEGATING_SIMPLE_PROPERTY",
	SimpleProperty:         "SIMPLE_PROPERTY",
}

func (t PartType) String() string { return partTypeNames[t] }

// Keywords returns the method-name suffixes that select this type. The
// first entry is the canonical form.
func (t PartType) Keywords() []string {
	return partKeywords[t]
}

// NumberOfArguments returns how many bind arguments the operator consumes.
func (t PartType) NumberOfArguments() int {
	switch t {
	case Between:
		return 2
	case IsNotNull, IsNull, IsNotEmpty, IsEmpty, True, False:
		return 0
	default:
		return 1
	}
}

var partKeywords = map[PartType][]string{
	Between:                {"IsBetween", "Between"},
	IsNotNull:              {"IsNotNull", "NotNull"},
	IsNull:                 {"IsNull", "Null"},
	LessThan:               {"IsLessThan", "LessThan"},
	LessThanEqual:          {"IsLessThanEqual", "LessThanEqual"},
	GreaterThan:            {"IsGreaterThan", "GreaterThan"},
	GreaterThanEqual:       {"IsGreaterThanEqual", "GreaterThanEqual"},
	Before:                 {"IsBefore", "Before"},
	After:                  {"IsAfter", "After"},
	NotLike:                {"IsNotLike", "NotLike"},
	Like:                   {"IsLike", "Like"},
	StartingWith:           {"IsStartingWith", "StartingWith", "StartsWith"},
	EndingWith:             {"IsEndingWith", "EndingWith", "EndsWith"},
	IsNotEmpty:             {"IsNotEmpty", "NotEmpty"},
	IsEmpty:                {"IsEmpty", "Empty"},
	NotContaining:          {"IsNotContaining", "NotContaining", "NotContains"},
	Containing:             {"IsContaining", "Containing", "Contains"},
	NotIn:                  {"IsNotIn", "NotIn"},
	In:                     {"IsIn", "In"},
	Regex:                  {"MatchesRegex", "Matches", "Regex"},
	True:                   {"IsTrue", "True"},
	False:                  {"IsFalse", "False"},
	NegatingSimpleProperty: {"IsNot", "Not"},
	SimpleProperty:         {"Is", "Equals"},
}

// keywordOrder lists all keywords longest-first so suffix matching always
// picks the most specific operator.
var keywordOrder = buildKeywordOrder()

type keywordEntry struct {
	keyword string
	partType PartType
}

func buildKeywordOrder() []keywordEntry {
	var entries []keywordEntry
	for t := Between; t <= SimpleProperty; t++ {
		for _, kw := range partKeywords[t] {
			entries = append(entries, keywordEntry{keyword: kw, partType: t})
		}
	}
	// stable insertion sort by descending keyword length
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0 && len(entries[j].keyword) > len(entries[j-1].keyword); j-- {
			entries[j], entries[j-1] = entries[j-1], entries[j]
		}
	}
	return entries
}

// Part is one condition: a resolved property path compared with one of the
// keyword operators.
type Part struct {
	Path       schema.Path
	Type       PartType
	IgnoreCase bool
}

// parsePart splits a fragment like "LastnameStartingWith" into property
// and operator. IgnoreCase markers are stripped before matching.
func parsePart(fragment string, mt *schema.ManagedType, resolver *schema.PathResolver, alwaysIgnoreCase bool) (Part, error) {
	ignoreCase := alwaysIgnoreCase
	for _, marker := range []string{"IgnoringCase", "IgnoreCase"} {
		if idx := strings.Index(fragment, marker); idx >= 0 {
			fragment = fragment[:idx] + fragment[idx+len(marker):]
			ignoreCase = true
		}
	}

	partType := SimpleProperty
	property := fragment
	for _, entry := range keywordOrder {
		if strings.HasSuffix(fragment, entry.keyword) && len(fragment) > len(entry.keyword) {
			partType = entry.partType
			property = strings.TrimSuffix(fragment, entry.keyword)
			break
		}
	}

	path, err := resolver.Resolve(mt, property)
	if err != nil {
		// the stripped suffix may have been part of the property name,
		// e.g. a property literally called "in" or "like"
		if partType != SimpleProperty {
			if fallback, ferr := resolver.Resolve(mt, fragment); ferr == nil {
				return Part{Path: fallback, Type: SimpleProperty, IgnoreCase: ignoreCase}, nil
			}
		}
		return Part{}, err
	}
	return Part{Path: path, Type: partType, IgnoreCase: ignoreCase}, nil
}
