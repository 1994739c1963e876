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

// Package example builds query predicates from an example entity: the
// populated fields of a probe become conditions, tuned by a Matcher.
package example

import "strings"

// StringMatcher selects how string properties of the probe are compared.
type StringMatcher int

const (
	// MatchDefault compares with the store's default, which is exact.
	MatchDefault StringMatcher = iota
	// MatchExact compares for equality.
	MatchExact
	// MatchStarting matches values starting with the probe value.
	MatchStarting
	// MatchEnding matches values ending with the probe value.
	MatchEnding
	// MatchContaining matches values containing the probe value.
	MatchContaining
	// MatchRegex treats the probe value as a regular expression.
	MatchRegex
)

// NullHandler controls how nil pointer properties of the probe are
// treated.
type NullHandler int

const (
	// NullIgnore skips nil properties.
	NullIgnore NullHandler = iota
	// NullInclude turns nil properties into "is null" conditions.
	NullInclude
)

// PropertySpecifier overrides matching for a single property path.
type PropertySpecifier struct {
	// Matcher overrides the default string matcher; MatchDefault keeps it.
	Matcher StringMatcher
	// IgnoreCase overrides the default case handling when non-nil.
	IgnoreCase *bool
	// Transform rewrites the probe value before it is compared.
	Transform func(any) any
}

// Matcher carries the matching configuration of an Example. The zero
// value is unusable; start from Matching or MatchingAny. All With*
// methods return a derived copy, so shared matchers stay unchanged.
type Matcher struct {
	matchAny      bool
	nullHandler   NullHandler
	defaultString StringMatcher
	ignoreCase    bool
	ignoredPaths  map[string]struct{}
	specifiers    map[string]PropertySpecifier
}

// Matching creates a matcher that requires all probe conditions to hold.
func Matching() Matcher {
	return Matcher{}
}

// MatchingAny creates a matcher where any probe condition suffices.
func MatchingAny() Matcher {
	return Matcher{matchAny: true}
}

// MatchAny reports whether conditions are combined with OR.
func (m Matcher) MatchAny() bool { return m.matchAny }

// WithIgnorePaths excludes the given property paths from matching.
func (m Matcher) WithIgnorePaths(paths ...string) Matcher {
	c := m.clone()
	for _, p := range paths {
		c.ignoredPaths[strings.ToLower(p)] = struct{}{}
	}
	return c
}

// WithStringMatcher sets the default string matching mode.
func (m Matcher) WithStringMatcher(sm StringMatcher) Matcher {
	c := m.clone()
	c.defaultString = sm
	return c
}

// WithIgnoreCase makes string matching case-insensitive by default.
func (m Matcher) WithIgnoreCase() Matcher {
	c := m.clone()
	c.ignoreCase = true
	return c
}

// WithIncludeNullValues turns nil probe properties into null conditions.
func (m Matcher) WithIncludeNullValues() Matcher {
	c := m.clone()
	c.nullHandler = NullInclude
	return c
}

// WithMatcher attaches a per-property override.
func (m Matcher) WithMatcher(path string, spec PropertySpecifier) Matcher {
	c := m.clone()
	c.specifiers[strings.ToLower(path)] = spec
	return c
}

// WithTransformer rewrites the probe value of one property before
// comparison.
func (m Matcher) WithTransformer(path string, transform func(any) any) Matcher {
	spec := m.specifierFor(path)
	spec.Transform = transform
	return m.WithMatcher(path, spec)
}

// NullHandler returns the configured null handling.
func (m Matcher) NullHandler() NullHandler { return m.nullHandler }

// IsIgnoredPath reports whether the path is excluded.
func (m Matcher) IsIgnoredPath(path string) bool {
	_, ok := m.ignoredPaths[strings.ToLower(path)]
	return ok
}

func (m Matcher) specifierFor(path string) PropertySpecifier {
	return m.specifiers[strings.ToLower(path)]
}

// stringMatcherFor resolves the effective mode for a path.
func (m Matcher) stringMatcherFor(path string) StringMatcher {
	if spec, ok := m.specifiers[strings.ToLower(path)]; ok && spec.Matcher != MatchDefault {
		return spec.Matcher
	}
	if m.defaultString == MatchDefault {
		return MatchExact
	}
	return m.defaultString
}

// ignoreCaseFor resolves the effective case handling for a path.
func (m Matcher) ignoreCaseFor(path string) bool {
	if spec, ok := m.specifiers[strings.ToLower(path)]; ok && spec.IgnoreCase != nil {
		return *spec.IgnoreCase
	}
	return m.ignoreCase
}

func (m Matcher) clone() Matcher {
	c := m
	c.ignoredPaths = make(map[string]struct{}, len(m.ignoredPaths)+1)
	for k := range m.ignoredPaths {
		c.ignoredPaths[k] = struct{}{}
	}
	c.specifiers = make(map[string]PropertySpecifier, len(m.specifiers)+1)
	for k, v := range m.specifiers {
		c.specifiers[k] = v
	}
	return c
}

// Example pairs a probe entity with its matcher.
type Example struct {
	Probe   any
	Matcher Matcher
}

// Of creates an example with default matching.
func Of(probe any) Example {
	return Example{Probe: probe, Matcher: Matching()}
}

// OfMatching creates an example with an explicit matcher.
func OfMatching(probe any, matcher Matcher) Example {
	return Example{Probe: probe, Matcher: matcher}
}
