package ast

import "strings"

// Availability is a bitset of schema variants a declaration is visible
// under. The zero value has no flags set.
type Availability uint8

// Recognized availability flags.
const (
	AvailabilityDefault Availability = 1 << iota
	AvailabilityDebug
	AvailabilityTest
	AvailabilityClient
	AvailabilityServer
	AvailabilityEntity
)

var availabilityNames = [...]struct {
	flag Availability
	name string
}{
	{AvailabilityDefault, "default"},
	{AvailabilityDebug, "debug"},
	{AvailabilityTest, "test"},
	{AvailabilityClient, "client"},
	{AvailabilityServer, "server"},
	{AvailabilityEntity, "entity"},
}

// ParseAvailability builds an Availability from flag names, e.g. as parsed
// from an `@[availability debug test]` region. Unknown names are ignored.
func ParseAvailability(names ...string) Availability {
	var a Availability
	for _, n := range names {
		for _, entry := range availabilityNames {
			if entry.name == n {
				a |= entry.flag
			}
		}
	}
	return a
}

// Contains reports whether other's flags are a subset of a's — a is
// visible to a query requiring other iff this holds.
func (a Availability) Contains(other Availability) bool {
	return other&^a == 0
}

// BiAnd returns the intersection of a and other.
func (a Availability) BiAnd(other Availability) Availability {
	return a & other
}

// IsZero reports whether no flag is set.
func (a Availability) IsZero() bool { return a == 0 }

func (a Availability) String() string {
	if a == 0 {
		return "<none>"
	}
	var parts []string
	for _, entry := range availabilityNames {
		if a&entry.flag != 0 {
			parts = append(parts, entry.name)
		}
	}
	return strings.Join(parts, " ")
}
