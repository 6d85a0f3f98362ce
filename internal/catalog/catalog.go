// Package catalog holds the node definitions the lowering engine creates
// graph nodes from. The catalog is built once from an Enumerator and is
// read-only afterwards.
package catalog

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// ErrDuplicateEntry is returned by a CollisionReject catalog whose
// enumeration yields one name twice.
var ErrDuplicateEntry = errors.New("duplicate node definition")

// Parameter is one property slot of a node definition.
type Parameter struct {
	Name string `yaml:"name" json:"name" msgpack:"name"`
	Type string `yaml:"type" json:"type" msgpack:"type"`
}

// Entry is a node definition. FullName is the lookup key
// ("Variable_SystemInt32").
type Entry struct {
	FullName   string      `yaml:"fullName" json:"fullName" msgpack:"fullName"`
	Name       string      `yaml:"name" json:"name" msgpack:"name"`
	Type       string      `yaml:"type,omitempty" json:"type,omitempty" msgpack:"type"`
	Parameters []Parameter `yaml:"parameters,omitempty" json:"parameters,omitempty" msgpack:"parameters"`
}

// Arity is the number of declared parameters.
func (e Entry) Arity() int { return len(e.Parameters) }

// Enumerator yields every node definition the host knows about.
type Enumerator interface {
	Definitions() ([]Entry, error)
}

// Collision decides what happens when two definitions share a FullName.
type Collision uint8

const (
	CollisionOverwrite Collision = iota // last writer wins
	CollisionKeepFirst
	CollisionReject
)

func (c Collision) String() string {
	switch c {
	case CollisionKeepFirst:
		return "keep-first"
	case CollisionReject:
		return "reject"
	default:
		return "overwrite"
	}
}

// ParseCollision accepts overwrite|keep-first|reject; "" is overwrite.
func ParseCollision(s string) (Collision, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "overwrite":
		return CollisionOverwrite, nil
	case "keep-first", "keepfirst", "first":
		return CollisionKeepFirst, nil
	case "reject", "error":
		return CollisionReject, nil
	default:
		return CollisionOverwrite, fmt.Errorf("unknown collision policy %q (expected overwrite|keep-first|reject)", s)
	}
}

// Catalog maps FullName to Entry. The map is built on first use, exactly
// once, and is safe for concurrent readers.
type Catalog struct {
	enum   Enumerator
	policy Collision

	once       sync.Once
	entries    map[string]Entry
	collisions int
	err        error
}

// New creates a lazy catalog over enum.
func New(enum Enumerator, policy Collision) *Catalog {
	return &Catalog{enum: enum, policy: policy}
}

func (c *Catalog) build() {
	c.once.Do(func() {
		if c.enum == nil {
			c.err = errors.New("catalog: no enumerator")
			return
		}
		defs, err := c.enum.Definitions()
		if err != nil {
			c.err = fmt.Errorf("catalog: enumerate definitions: %w", err)
			return
		}
		entries := make(map[string]Entry, len(defs))
		for _, e := range defs {
			if _, dup := entries[e.FullName]; dup {
				c.collisions++
				switch c.policy {
				case CollisionKeepFirst:
					continue
				case CollisionReject:
					c.err = fmt.Errorf("catalog: %w: %s", ErrDuplicateEntry, e.FullName)
					return
				}
			}
			entries[e.FullName] = e
		}
		c.entries = entries
	})
}

// Lookup returns the definition named fullName. A catalog whose build
// failed finds nothing.
func (c *Catalog) Lookup(fullName string) (Entry, bool) {
	c.build()
	e, ok := c.entries[fullName]
	return e, ok
}

// Err returns the build error, building the catalog if needed.
func (c *Catalog) Err() error {
	c.build()
	return c.err
}

// Len is the number of distinct definitions.
func (c *Catalog) Len() int {
	c.build()
	return len(c.entries)
}

// Collisions counts duplicate names seen during the build.
func (c *Catalog) Collisions() int {
	c.build()
	return c.collisions
}

// Policy returns the collision policy the catalog was created with.
func (c *Catalog) Policy() Collision { return c.policy }

// Entries returns all definitions sorted by FullName.
func (c *Catalog) Entries() []Entry {
	c.build()
	out := make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b Entry) int { return strings.Compare(a.FullName, b.FullName) })
	return out
}
