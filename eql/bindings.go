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

import "fmt"

// BindingArity returns the number of bind arguments the statement expects:
// the highest positional index, or the number of distinct parameter names.
// Repeated placeholders bind the same argument and count once.
func (s *SelectStatement) BindingArity() int {
	max := 0
	names := map[string]struct{}{}
	for _, b := range s.Bindings {
		if b.IsNamed() {
			names[b.Name] = struct{}{}
		} else if b.Position > max {
			max = b.Position
		}
	}
	if len(names) > max {
		return len(names)
	}
	return max
}

// ValidateBindings checks the statement's placeholders for authoring errors:
// mixed positional and named styles, and positional gaps (a ?3 with no ?2
// would silently drop an argument at execution time).
func (s *SelectStatement) ValidateBindings() error {
	seen := map[int]struct{}{}
	named := false
	positional := false
	max := 0
	for _, b := range s.Bindings {
		if b.IsNamed() {
			named = true
			continue
		}
		positional = true
		seen[b.Position] = struct{}{}
		if b.Position > max {
			max = b.Position
		}
	}
	if named && positional {
		return fmt.Errorf("query mixes named and positional parameters")
	}
	for i := 1; i <= max; i++ {
		if _, ok := seen[i]; !ok {
			return fmt.Errorf("positional parameters are not contiguous: ?%d is missing", i)
		}
	}
	return nil
}
