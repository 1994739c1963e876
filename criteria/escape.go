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

package criteria

import "strings"

// EscapeCharacter quotes LIKE wildcards in user-supplied match values so
// they match literally. The zero value is unusable; use DefaultEscape or
// EscapeWith.
type EscapeCharacter struct {
	ch byte
}

// DefaultEscape escapes with a backslash.
var DefaultEscape = EscapeWith('\\')

// EscapeWith creates an escape character definition.
func EscapeWith(ch byte) EscapeCharacter { return EscapeCharacter{ch: ch} }

// String returns the escape character as a one-byte string.
func (e EscapeCharacter) String() string { return string(e.ch) }

// Escape quotes the escape character itself first, then the % and _
// wildcards.
func (e EscapeCharacter) Escape(value string) string {
	var sb strings.Builder
	for i := 0; i < len(value); i++ {
		switch value[i] {
		case e.ch, '%', '_':
			sb.WriteByte(e.ch)
		}
		sb.WriteByte(value[i])
	}
	return sb.String()
}

// StartsWith builds the LIKE pattern matching values with the prefix.
func (e EscapeCharacter) StartsWith(value string) string { return e.Escape(value) + "%" }

// EndsWith builds the LIKE pattern matching values with the suffix.
func (e EscapeCharacter) EndsWith(value string) string { return "%" + e.Escape(value) }

// Contains builds the LIKE pattern matching values containing the infix.
func (e EscapeCharacter) Contains(value string) string { return "%" + e.Escape(value) + "%" }
