// Package idgen implements the identifier-allocation rules of
// spec.md §4.6 and the "Legacy UUID synthesis" design note: fresh
// random KIIDs for new items, deterministic synthesis for pre-UUID
// files so instance paths stay stable across repeated reads, and
// collision-avoidance by incrementing on reuse within one document.
package idgen

import (
	"crypto/sha1" //nolint:gosec // identifier synthesis, not a security boundary
	"fmt"

	"github.com/google/uuid"
)

// legacyNamespace roots every deterministic synthesis in this module's
// own namespace so it never collides with UUIDs synthesized by another
// implementation reading the same legacy file by coincidence of input.
var legacyNamespace = uuid.MustParse("6f2db9a1-6e8e-4b0b-9a9b-6b1b6e9f9a11")

// Allocator draws fresh KIIDs and synthesizes legacy ones, tracking
// which UUIDs have already been issued in the current document so
// collisions can be resolved by incrementing (§3 "Identifier
// discipline", §4.6).
type Allocator struct {
	seen map[string]bool
}

func NewAllocator() *Allocator {
	return &Allocator{seen: make(map[string]bool)}
}

// New draws a fresh random UUID, guaranteed unique within this
// allocator's document.
func (a *Allocator) New() string {
	for {
		id := uuid.New().String()
		if !a.seen[id] {
			a.seen[id] = true
			return id
		}
	}
}

// Claim registers an externally-supplied UUID (one read from a file)
// as used, incrementing it until unique if it collides with one
// already seen in this document — the "on collision during parse, a
// UUID is incremented until unique" rule from §3.
func (a *Allocator) Claim(id string) string {
	if id == "" {
		return a.New()
	}
	for a.seen[id] {
		id = increment(id)
	}
	a.seen[id] = true
	return id
}

// SynthesizeLegacy derives a deterministic UUID from a pre-UUID
// screen's own identity (its filename, or whatever string the caller
// considers stable across reads of the same screen), per the "Legacy
// UUID synthesis" design note: never random here, so instance paths
// built from this root stay stable.
func (a *Allocator) SynthesizeLegacy(screenIdentity string) string {
	id := uuid.NewSHA1(legacyNamespace, []byte(screenIdentity)).String()
	return a.Claim(id)
}

// increment mutates the last hex digit of a UUID's final group,
// carrying into earlier digits on overflow, wrapping within the
// group on total overflow (astronomically unlikely in practice, but
// kept total so Claim always terminates).
func increment(id string) string {
	b := []byte(id)
	for i := len(b) - 1; i >= 0; i-- {
		c := b[i]
		if c == '-' {
			continue
		}
		d := hexVal(c)
		if d < 15 {
			b[i] = hexChar(d + 1)
			return string(b)
		}
		b[i] = '0'
		// continue carrying into the previous digit
	}
	return string(b)
}

func hexVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	default:
		return 0
	}
}

func hexChar(v int) byte {
	const digits = "0123456789abcdef"
	return digits[v&0xf]
}

// Hash exposes the sha1 sum of an arbitrary identity string for
// callers (e.g. the CADSTAR importer's "createUniqueGroupID", §4.2
// step 6) that want a short stable fingerprint without going through
// the UUID v5-style encoding above.
func Hash(identity string) string {
	sum := sha1.Sum([]byte(identity)) //nolint:gosec
	return fmt.Sprintf("%x", sum[:8])
}
