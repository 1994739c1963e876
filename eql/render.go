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

import "strings"

// Render assembles a token stream into the final query text. Expression
// boundaries receive a single separating space; punctuation and pre-spaced
// tokens never accumulate extra whitespace. Rendering is a pure function of
// the stream, so repeated calls yield identical output.
func Render(stream TokenStream) string {
	r := &renderer{}
	stream.renderTo(r)
	return r.sb.String()
}

// renderer accumulates output and tracks the trailing byte so boundary
// spaces are inserted exactly once and never ahead of closing punctuation.
type renderer struct {
	sb      strings.Builder
	last    byte
	pending bool
}

// space requests a separating space ahead of the next written fragment.
func (r *renderer) space() {
	r.pending = true
}

func (r *renderer) write(s string) {
	if s == "" {
		return
	}

	need := r.pending && !suppressesLeadingSpace(s[0])
	r.pending = false

	// two word tokens must never fuse, regardless of expression flags
	if wordByte(r.last) && wordByte(s[0]) {
		need = true
	}

	if need && r.sb.Len() > 0 && r.last != ' ' {
		r.sb.WriteByte(' ')
		r.last = ' '
	}

	r.sb.WriteString(s)
	r.last = s[len(s)-1]
}

// suppressesLeadingSpace marks characters that bind to the previous token.
func suppressesLeadingSpace(ch byte) bool {
	return ch == ',' || ch == '.' || ch == ')' || ch == ' '
}

func wordByte(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || '0' <= ch && ch <= '9' || ch == '_'
}
