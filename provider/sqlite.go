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

package provider

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/repoql/repoql/eql"
	"github.com/repoql/repoql/schema"
)

// Open opens a SQLite database. Use ":memory:" for a throwaway store.
func Open(dsn string) (*sql.DB, error) {
	return sql.Open("sqlite3", dsn)
}

// SQLiteProvider is the reference Provider backed by database/sql and the
// sqlite3 driver. Entity names map to table names, property names to
// column names. Typed queries are lowered to SQL by dropping the root
// alias; joins and nested paths are beyond what this provider executes.
type SQLiteProvider struct {
	db       *sql.DB
	registry *schema.Registry

	mu    sync.Mutex
	infos map[*schema.ManagedType]*schema.EntityInformation
}

// NewSQLiteProvider wraps an open database.
func NewSQLiteProvider(db *sql.DB, registry *schema.Registry) *SQLiteProvider {
	return &SQLiteProvider{
		db:       db,
		registry: registry,
		infos:    make(map[*schema.ManagedType]*schema.EntityInformation),
	}
}

// ManagedType resolves entity metadata through the provider's registry.
func (p *SQLiteProvider) ManagedType(entity any) (*schema.ManagedType, error) {
	return p.registry.Register(entity)
}

// CreateQuery prepares a declared query. Native text passes through;
// typed text is parsed and lowered to SQL first. SQLite understands the
// ?N placeholders the compiler emits, so parameters need no rewriting.
func (p *SQLiteProvider) CreateQuery(_ context.Context, q DeclaredQuery) (*Query, error) {
	if err := Validate(q); err != nil {
		return nil, err
	}

	text := q.QueryText()
	if !q.IsNative() {
		lowered, err := lowerToSQL(text)
		if err != nil {
			return nil, err
		}
		text = lowered
	}
	return &Query{db: p.db, text: text}, nil
}

// Identifier extracts the entity's identifier, consulting proxy state
// before touching any field.
func (p *SQLiteProvider) Identifier(entity any) (any, error) {
	mt, err := p.registry.Register(entity)
	if err != nil {
		return nil, err
	}
	return p.infoFor(mt).ID(entity)
}

// IsProxy reports whether the value is an uninitialized stand-in.
func (p *SQLiteProvider) IsProxy(entity any) bool {
	_, ok := entity.(Proxy)
	return ok
}

func (p *SQLiteProvider) infoFor(mt *schema.ManagedType) *schema.EntityInformation {
	p.mu.Lock()
	defer p.mu.Unlock()
	info, ok := p.infos[mt]
	if !ok {
		info = schema.NewEntityInformation(mt, ProxyIdentifier)
		p.infos[mt] = info
	}
	return info
}

// lowerToSQL rewrites entity-level query text into plain SQL against a
// table named like the entity: the root alias becomes * in the select
// list, the from clause loses the alias, and qualified properties lose
// their prefix.
func lowerToSQL(text string) (string, error) {
	stmt, err := eql.Parse(text)
	if err != nil {
		return "", fmt.Errorf("lower query to SQL: %w", err)
	}

	alias := stmt.PrimaryAlias
	sqlText := stmt.Render()
	if alias == "" {
		return sqlText, nil
	}

	replacer := strings.NewReplacer(
		"select "+alias+" from", "select * from",
		"select distinct "+alias+" from", "select distinct * from",
		"count("+alias+")", "count(*)",
		"count(distinct "+alias+")", "count(*)",
		" as "+alias, "",
		alias+".", "",
	)
	sqlText = replacer.Replace(sqlText)

	// a bare trailing alias in the from clause: "from Person p"
	sqlText = strings.ReplaceAll(sqlText, " "+alias+" where ", " where ")
	sqlText = strings.ReplaceAll(sqlText, " "+alias+" order by ", " order by ")
	sqlText = strings.ReplaceAll(sqlText, " "+alias+" group by ", " group by ")
	sqlText = strings.TrimSuffix(sqlText, " "+alias)
	return sqlText, nil
}

// Query is a prepared statement-like handle over the lowered text.
type Query struct {
	db   *sql.DB
	text string
}

// Text returns the SQL that will run.
func (q *Query) Text() string { return q.text }

// Select runs the query and returns the rows.
func (q *Query) Select(ctx context.Context, args ...any) (*sql.Rows, error) {
	return q.db.QueryContext(ctx, q.text, args...)
}

// Count runs the query and scans a single numeric result.
func (q *Query) Count(ctx context.Context, args ...any) (int64, error) {
	var n int64
	if err := q.db.QueryRowContext(ctx, q.text, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Exec runs the query for its side effects, e.g. a delete.
func (q *Query) Exec(ctx context.Context, args ...any) (int64, error) {
	res, err := q.db.ExecContext(ctx, q.text, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
