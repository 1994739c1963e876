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

// Package provider connects the query model to a persistence backend:
// declared queries, identifier access and proxy awareness.
package provider

import (
	"context"
	"errors"

	"github.com/repoql/repoql/schema"
)

// ErrUnknownQueryType is returned when a declared query value is none of
// the known kinds.
var ErrUnknownQueryType = errors.New("unknown declared query type")

// DeclaredQuery is a query definition attached to a repository method.
// Exactly three kinds exist: NativeQuery, TypedQuery and NamedQuery.
type DeclaredQuery interface {
	// QueryText returns the query string to execute.
	QueryText() string
	// IsNative reports whether the text is backend SQL rather than
	// entity-level query language.
	IsNative() bool
}

// NativeQuery is raw backend SQL.
type NativeQuery struct {
	Text string
}

func (q NativeQuery) QueryText() string { return q.Text }
func (q NativeQuery) IsNative() bool    { return true }

// TypedQuery is entity-level query language text.
type TypedQuery struct {
	Text string
}

func (q TypedQuery) QueryText() string { return q.Text }
func (q TypedQuery) IsNative() bool    { return false }

// NamedQuery refers to a query registered under a name; Resolved carries
// the definition it was resolved to.
type NamedQuery struct {
	Name     string
	Resolved DeclaredQuery
}

func (q NamedQuery) QueryText() string {
	if q.Resolved == nil {
		return ""
	}
	return q.Resolved.QueryText()
}

func (q NamedQuery) IsNative() bool {
	return q.Resolved != nil && q.Resolved.IsNative()
}

// Validate checks that the value is one of the known query kinds and, for
// named queries, that it has been resolved.
func Validate(q DeclaredQuery) error {
	switch query := q.(type) {
	case NativeQuery, TypedQuery:
		return nil
	case NamedQuery:
		if query.Resolved == nil {
			return errors.New("named query " + query.Name + " is unresolved")
		}
		return Validate(query.Resolved)
	default:
		return ErrUnknownQueryType
	}
}

// Proxy is implemented by lazily loaded entity stand-ins that know their
// identifier without being initialized.
type Proxy interface {
	ProxyID() (any, bool)
}

// Provider is a persistence backend seen from the query side.
type Provider interface {
	// ManagedType resolves entity metadata.
	ManagedType(entity any) (*schema.ManagedType, error)
	// CreateQuery prepares a declared query for execution.
	CreateQuery(ctx context.Context, q DeclaredQuery) (*Query, error)
	// Identifier extracts the identifier of an entity, consulting proxy
	// state first.
	Identifier(entity any) (any, error)
	// IsProxy reports whether the value is an uninitialized stand-in.
	IsProxy(entity any) bool
}

// ProxyIdentifier reads the identifier off a proxy without initializing
// it. ok is false for non-proxies and unloaded identifiers.
func ProxyIdentifier(entity any) (any, bool) {
	p, isProxy := entity.(Proxy)
	if !isProxy {
		return nil, false
	}
	return p.ProxyID()
}
