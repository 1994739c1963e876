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

package repoql

import (
	"io"

	"github.com/repoql/repoql/criteria"
	"github.com/repoql/repoql/eql"
	"github.com/repoql/repoql/logger"
	"github.com/repoql/repoql/schema"
)

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithDialect selects the query language dialect used when parsing
// declared query text.
//
// Example:
//
//	engine := repoql.New(repoql.WithDialect(eql.DialectJPQL))
func WithDialect(d eql.Dialect) Option {
	return func(e *Engine) {
		e.dialect = d
	}
}

// WithRegistry shares an existing entity registry across engines.
func WithRegistry(r *schema.Registry) Option {
	return func(e *Engine) {
		e.registry = r
	}
}

// WithEscapeCharacter sets the LIKE escape character used for pattern
// conditions.
//
// Example:
//
//	engine := repoql.New(repoql.WithEscapeCharacter('!'))
func WithEscapeCharacter(ch byte) Option {
	return func(e *Engine) {
		e.escape = criteria.EscapeWith(ch)
	}
}

// WithLogger sets a custom logger backend.
//
// Example:
//
//	custom := logger.NewLogger(logger.DEBUG, os.Stderr)
//	engine := repoql.New(repoql.WithLogger(custom))
func WithLogger(log logger.Logger) Option {
	return func(e *Engine) {
		logger.SetDefault(log)
	}
}

// WithLogLevel sets the log level on the default logger.
//
// Example:
//
//	engine := repoql.New(repoql.WithLogLevel(logger.OFF))
func WithLogLevel(level logger.Level) Option {
	return func(e *Engine) {
		logger.GetDefault().SetLevel(level)
	}
}

// WithDiscardLogger silences all engine logging.
func WithDiscardLogger() Option {
	return WithLogger(logger.NewDiscardLogger())
}

// WithLogOutput directs default logging to the given writer.
func WithLogOutput(level logger.Level, output io.Writer) Option {
	return WithLogger(logger.NewLogger(level, output))
}
