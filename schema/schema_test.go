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

package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Address struct {
	City    string
	ZipCode string
}

type Role struct {
	ID   int `eql:"id"`
	Name string
}

type Person struct {
	ID           int `eql:"id"`
	Firstname    string
	Lastname     string
	Email        string
	EmailAddress string
	Age          int
	Address      Address `eql:"embedded"`
	Manager      *Person
	Roles        []Role
	Secret       string `eql:"-"`
}

type Booking struct {
	FlightNumber string `eql:"id"`
	Seat         string `eql:"id"`
	Passenger    string
}

func TestRegisterClassifiesAttributes(t *testing.T) {
	reg := NewRegistry()
	mt, err := reg.Register(Person{})
	require.NoError(t, err)

	assert.Equal(t, "Person", mt.Name())

	cases := []struct {
		property string
		kind     AttributeKind
	}{
		{"firstname", AttrBasic},
		{"age", AttrBasic},
		{"address", AttrEmbedded},
		{"manager", AttrAssociation},
		{"roles", AttrAssociation},
	}
	for _, tc := range cases {
		attr, ok := mt.Attribute(tc.property)
		require.True(t, ok, tc.property)
		assert.Equal(t, tc.kind, attr.Kind, tc.property)
	}

	_, ok := mt.Attribute("secret")
	assert.False(t, ok, "excluded field must not register")

	roles, _ := mt.Attribute("roles")
	assert.True(t, roles.IsCollection())
}

func TestRegistryCachesAndClears(t *testing.T) {
	reg := NewRegistry()
	first, err := reg.Register(&Person{})
	require.NoError(t, err)
	second, err := reg.Register(Person{})
	require.NoError(t, err)
	assert.Same(t, first, second, "pointer and value resolve to one entry")

	byName, ok := reg.LookupName("Person")
	require.True(t, ok)
	assert.Same(t, first, byName)

	reg.Clear()
	_, ok = reg.Lookup(Person{})
	assert.False(t, ok)
	_, ok = reg.LookupName("Person")
	assert.False(t, ok)
}

func TestRegisterRejectsNonStruct(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Register(42)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be a struct")
}

func TestLongestMatchPrefersLongerProperty(t *testing.T) {
	reg := NewRegistry()
	mt, err := reg.Register(Person{})
	require.NoError(t, err)

	trie := newPropertyTrie(mt)

	attr, n := trie.LongestMatch("EmailAddressContaining")
	require.NotNil(t, attr)
	assert.Equal(t, "emailAddress", attr.Name)
	assert.Equal(t, len("EmailAddress"), n)

	attr, n = trie.LongestMatch("EmailLike")
	require.NotNil(t, attr)
	assert.Equal(t, "email", attr.Name)
	assert.Equal(t, len("Email"), n)

	attr, _ = trie.LongestMatch("Nickname")
	assert.Nil(t, attr)
}

func TestResolvePaths(t *testing.T) {
	reg := NewRegistry()
	mt, err := reg.Register(Person{})
	require.NoError(t, err)
	resolver := NewPathResolver(reg)

	cases := []struct {
		fragment string
		path     string
	}{
		{"Lastname", "lastname"},
		{"AddressZipCode", "address.zipCode"},
		{"Address_City", "address.city"},
		{"ManagerFirstname", "manager.firstname"},
		{"RolesName", "roles.name"},
	}
	for _, tc := range cases {
		path, err := resolver.Resolve(mt, tc.fragment)
		require.NoError(t, err, tc.fragment)
		assert.Equal(t, tc.path, path.String(), tc.fragment)
	}
}

func TestResolveReportsUnresolvableTail(t *testing.T) {
	reg := NewRegistry()
	mt, err := reg.Register(Person{})
	require.NoError(t, err)
	resolver := NewPathResolver(reg)

	_, err = resolver.Resolve(mt, "LastnameBogus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Bogus")

	_, err = resolver.Resolve(mt, "AgeCity")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not traversable")
}

func TestSimpleIdentifier(t *testing.T) {
	reg := NewRegistry()
	mt, err := reg.Register(Person{})
	require.NoError(t, err)
	info := NewEntityInformation(mt, nil)

	assert.False(t, info.HasCompositeID())
	assert.Equal(t, "int", info.IDType().String())

	id, err := info.ID(Person{ID: 7})
	require.NoError(t, err)
	assert.Equal(t, 7, id)

	id, err = info.ID(&Person{})
	require.NoError(t, err)
	assert.Nil(t, id, "zero id reads as absent")

	isNew, err := info.IsNew(Person{})
	require.NoError(t, err)
	assert.True(t, isNew)
}

func TestCompositeIdentifier(t *testing.T) {
	reg := NewRegistry()
	mt, err := reg.Register(Booking{})
	require.NoError(t, err)
	info := NewEntityInformation(mt, nil)

	assert.True(t, info.HasCompositeID())

	id, err := info.ID(Booking{FlightNumber: "LH007", Seat: "12A"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"flightNumber": "LH007", "seat": "12A"}, id)

	// any populated component makes the identifier present
	id, err = info.ID(Booking{Seat: "12A"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"flightNumber": "", "seat": "12A"}, id)

	id, err = info.ID(Booking{})
	require.NoError(t, err)
	assert.Nil(t, id)
}

func TestProxyResolverShortCircuits(t *testing.T) {
	reg := NewRegistry()
	mt, err := reg.Register(Person{})
	require.NoError(t, err)

	calls := 0
	info := NewEntityInformation(mt, func(entity any) (any, bool) {
		calls++
		return 42, true
	})

	id, err := info.ID(Person{ID: 7})
	require.NoError(t, err)
	assert.Equal(t, 42, id, "proxy answer wins over field access")
	assert.Equal(t, 1, calls)
}

func TestIDFromTuple(t *testing.T) {
	reg := NewRegistry()

	personType, err := reg.Register(Person{})
	require.NoError(t, err)
	person := NewEntityInformation(personType, nil)

	id, err := person.IDFromTuple(map[string]any{"p.id": 9}, "p")
	require.NoError(t, err)
	assert.Equal(t, 9, id)

	id, err = person.IDFromTuple(map[string]any{"id": 9}, "p")
	require.NoError(t, err)
	assert.Equal(t, 9, id, "bare name is the fallback")

	id, err = person.IDFromTuple(map[string]any{"p.lastname": "Doe"}, "p")
	require.NoError(t, err)
	assert.Nil(t, id)

	bookingType, err := reg.Register(Booking{})
	require.NoError(t, err)
	booking := NewEntityInformation(bookingType, nil)

	id, err = booking.IDFromTuple(map[string]any{"b.flightNumber": "LH007"}, "b")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"flightNumber": "LH007"}, id)

	id, err = booking.IDFromTuple(map[string]any{}, "b")
	require.NoError(t, err)
	assert.Nil(t, id)
}
