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

package method

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/repoql/repoql/schema"
	"github.com/repoql/repoql/types"
)

// Mode is what a derived method does with the matched rows.
type Mode int

const (
	// ModeQuery selects entities (find, read, get, query, search, stream).
	ModeQuery Mode = iota
	// ModeCount counts matches.
	ModeCount
	// ModeExists tests for at least one match.
	ModeExists
	// ModeDelete removes matches (delete, remove).
	ModeDelete
)

func (m Mode) String() string {
	switch m {
	case ModeQuery:
		return "query"
	case ModeCount:
		return "count"
	case ModeExists:
		return "exists"
	case ModeDelete:
		return "delete"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Subject is the parsed method-name prefix up to "By".
type Subject struct {
	Mode     Mode
	Distinct bool
	// Limit caps the result count; 0 means unlimited. "First" and "Top"
	// without a number limit to one row.
	Limit int
}

var subjectRe = regexp.MustCompile(`^(find|read|get|query|search|stream|count|exists|delete|remove)(\p{Lu}.*)?$`)
var limitRe = regexp.MustCompile(`(First|Top)(\d*)`)

// Tree is a fully parsed derived method name: the subject, the condition
// branches (outer slice joined with OR, inner parts with AND), and the
// static sort from a trailing OrderBy clause.
type Tree struct {
	Subject  Subject
	Branches [][]Part
	Sort     types.Sort
}

// Parts returns all condition parts in declaration order.
func (t *Tree) Parts() []Part {
	var all []Part
	for _, branch := range t.Branches {
		all = append(all, branch...)
	}
	return all
}

// NumberOfArguments sums the bind arguments all parts consume.
func (t *Tree) NumberOfArguments() int {
	n := 0
	for _, p := range t.Parts() {
		n += p.Type.NumberOfArguments()
	}
	return n
}

// Parse decomposes a derived method name against the entity's property
// graph. Malformed names and unresolvable properties fail here, at
// bootstrap, rather than at query time.
func Parse(name string, mt *schema.ManagedType, resolver *schema.PathResolver) (*Tree, error) {
	if name == "" {
		return nil, fmt.Errorf("method name must not be empty")
	}

	subjectStr, predicateStr := splitSubject(name)

	subject, err := parseSubject(subjectStr, name)
	if err != nil {
		return nil, err
	}

	tree := &Tree{Subject: subject, Sort: types.Unsorted()}

	predicateStr, orderStr := splitKeyword(predicateStr, "OrderBy")
	if orderStr != "" {
		tree.Sort, err = parseOrder(orderStr, mt, resolver)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", name, err)
		}
	}

	allIgnoreCase := false
	for _, marker := range []string{"AllIgnoringCase", "AllIgnoreCase"} {
		if strings.HasSuffix(predicateStr, marker) {
			predicateStr = strings.TrimSuffix(predicateStr, marker)
			allIgnoreCase = true
			break
		}
	}

	if predicateStr == "" {
		return tree, nil
	}

	for _, orFragment := range splitKeywordAll(predicateStr, "Or") {
		var branch []Part
		for _, andFragment := range splitKeywordAll(orFragment, "And") {
			part, err := parsePart(andFragment, mt, resolver, allIgnoreCase)
			if err != nil {
				return nil, fmt.Errorf("parse %q: %w", name, err)
			}
			branch = append(branch, part)
		}
		tree.Branches = append(tree.Branches, branch)
	}
	return tree, nil
}

// splitSubject splits a method name at the first "By" that starts a camel
// hump, e.g. findDistinctBy|LastnameLike. Without one the whole name is
// the subject and the predicate is empty.
func splitSubject(name string) (subject, predicate string) {
	for i := 0; i+2 <= len(name); i++ {
		if name[i] != 'B' || name[i+1] != 'y' {
			continue
		}
		rest := name[i+2:]
		if rest == "" || unicode.IsUpper(rune(rest[0])) {
			return name[:i], rest
		}
	}
	return name, ""
}

func parseSubject(subject, name string) (Subject, error) {
	m := subjectRe.FindStringSubmatch(subject)
	if m == nil {
		return Subject{}, fmt.Errorf("method name %q must start with find, read, get, query, search, stream, count, exists, delete or remove", name)
	}

	s := Subject{}
	switch m[1] {
	case "count":
		s.Mode = ModeCount
	case "exists":
		s.Mode = ModeExists
	case "delete", "remove":
		s.Mode = ModeDelete
	default:
		s.Mode = ModeQuery
	}

	modifiers := m[2]
	if strings.Contains(modifiers, "Distinct") {
		s.Distinct = true
	}
	if lm := limitRe.FindStringSubmatch(modifiers); lm != nil {
		s.Limit = 1
		if lm[2] != "" {
			n, err := strconv.Atoi(lm[2])
			if err != nil || n <= 0 {
				return Subject{}, fmt.Errorf("method name %q has an invalid result limit %q", name, lm[2])
			}
			s.Limit = n
		}
	}
	return s, nil
}

// splitKeyword splits s at the first occurrence of the keyword that both
// starts and is followed by a camel hump.
func splitKeyword(s, keyword string) (before, after string) {
	for i := 0; i+len(keyword) <= len(s); i++ {
		if s[i:i+len(keyword)] != keyword {
			continue
		}
		rest := s[i+len(keyword):]
		if rest != "" && unicode.IsUpper(rune(rest[0])) {
			return s[:i], rest
		}
	}
	return s, ""
}

// splitKeywordAll splits on every hump-aligned occurrence of the keyword.
func splitKeywordAll(s, keyword string) []string {
	var out []string
	for {
		before, after := splitKeyword(s, keyword)
		out = append(out, before)
		if after == "" {
			return out
		}
		s = after
	}
}

// parseOrder reads an OrderBy clause: one or more properties, each with an
// optional Asc or Desc suffix.
func parseOrder(clause string, mt *schema.ManagedType, resolver *schema.PathResolver) (types.Sort, error) {
	var orders []types.Order
	rest := clause
	for rest != "" {
		path, direction, next, err := nextOrder(rest, mt, resolver)
		if err != nil {
			return types.Unsorted(), err
		}
		orders = append(orders, types.Order{Property: path.String(), Direction: direction})
		rest = next
	}
	if len(orders) == 0 {
		return types.Unsorted(), fmt.Errorf("order clause %q names no property", clause)
	}
	return types.NewSort(orders...), nil
}

// nextOrder consumes one property plus optional direction from the head of
// the clause. The property is the longest resolvable camel prefix, so
// "LastnameAscFirstname" yields lastname before the direction is read.
func nextOrder(clause string, mt *schema.ManagedType, resolver *schema.PathResolver) (schema.Path, types.Direction, string, error) {
	// candidate cut points are camel hump starts, longest first
	for cut := len(clause); cut > 0; cut = lastHump(clause, cut) {
		head := clause[:cut]
		direction := types.Ascending
		rest := clause[cut:]

		if strings.HasSuffix(head, "Desc") && len(head) > len("Desc") {
			if path, err := resolver.Resolve(mt, strings.TrimSuffix(head, "Desc")); err == nil {
				return path, types.Descending, rest, nil
			}
		}
		if strings.HasSuffix(head, "Asc") && len(head) > len("Asc") {
			if path, err := resolver.Resolve(mt, strings.TrimSuffix(head, "Asc")); err == nil {
				return path, types.Ascending, rest, nil
			}
		}
		if path, err := resolver.Resolve(mt, head); err == nil {
			return path, direction, rest, nil
		}
	}
	return schema.Path{}, types.Ascending, "", fmt.Errorf("no property matching %q found on %s", clause, mt.Name())
}

// lastHump returns the index of the last camel hump strictly before limit,
// or 0 when none remains.
func lastHump(s string, limit int) int {
	for i := limit - 1; i > 0; i-- {
		if unicode.IsUpper(rune(s[i])) {
			return i
		}
	}
	return 0
}
