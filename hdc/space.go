package hdc

import (
	"fmt"
	"strconv"
	"strings"
)

// reservedPrefixes and reservedExact enumerate the vector names reserved for
// internal use by the graph and classifier engines. User code must not
// reuse them; Space.Insert rejects any attempt to do so.
var reservedExact = map[string]struct{}{
	"__graph__": {},
}

var reservedPrefixes = []string{"__weight__", "level_", "point_", "class_"}

// IsReservedName reports whether name is reserved for internal use by the
// graph or classifier engines.
func IsReservedName(name string) bool {
	if _, ok := reservedExact[name]; ok {
		return true
	}
	for _, p := range reservedPrefixes {
		if strings.HasPrefix(name, p) {
			suffix := name[len(p):]
			if p == "__weight__" {
				return true
			}
			if _, err := strconv.Atoi(suffix); err == nil {
				return true
			}
		}
	}
	return false
}

// Space is a named-indexed container of hypervectors that all share one
// dimension and one alphabet. It exclusively owns every Vector inserted
// into it: removing or discarding the Space discards them.
type Space struct {
	dims     int
	alphabet Alphabet
	order    []string
	vectors  map[string]Vector
}

// NewSpace creates an empty Space with the given dims/alphabet.
func NewSpace(dims int, alphabet Alphabet) (*Space, error) {
	if dims < MinDims {
		return nil, fmt.Errorf("%w: dims=%d below minimum %d", ErrContractViolation, dims, MinDims)
	}
	if !alphabet.valid() {
		return nil, fmt.Errorf("%w: alphabet %q not recognised", ErrContractViolation, alphabet)
	}
	return &Space{
		dims:     dims,
		alphabet: alphabet,
		vectors:  make(map[string]Vector),
	}, nil
}

// Dims returns the Space's fixed dimension.
func (s *Space) Dims() int { return s.dims }

// Alphabet returns the Space's fixed alphabet.
func (s *Space) Alphabet() Alphabet { return s.alphabet }

// Len returns the number of vectors currently in the Space.
func (s *Space) Len() int { return len(s.order) }

// Insert adds v to the Space. It fails if v.Dims() or v.AlphabetOf() do not
// match the Space, if a vector with v.Name() already exists, or if
// v.Name() collides with a reserved internal name and allowReserved is
// false. Internal engine code (graph, classify) passes allowReserved=true
// when it is itself the one installing e.g. "__graph__" or "level_0".
func (s *Space) insert(v Vector, allowReserved bool) error {
	if v.dims != s.dims {
		return fmt.Errorf("%w: vector %q has dims=%d, space has dims=%d", ErrContractViolation, v.name, v.dims, s.dims)
	}
	if v.alphabet != s.alphabet {
		return fmt.Errorf("%w: vector %q has alphabet %s, space has alphabet %s", ErrContractViolation, v.name, v.alphabet, s.alphabet)
	}
	if _, exists := s.vectors[v.name]; exists {
		return fmt.Errorf("%w: vector %q already in space", ErrContractViolation, v.name)
	}
	if !allowReserved && IsReservedName(v.name) {
		return fmt.Errorf("%w: vector name %q is reserved for internal use", ErrContractViolation, v.name)
	}
	s.vectors[v.name] = v
	s.order = append(s.order, v.name)
	return nil
}

// Insert adds a user-supplied vector to the Space; see the unexported
// insert for the full contract. Reserved names are always rejected here —
// the graph/classify engines install reserved-named vectors through
// InsertInternal instead.
func (s *Space) Insert(v Vector) error {
	return s.insert(v, false)
}

// InsertInternal is the engine-facing counterpart of Insert: it is allowed
// to install vectors under reserved names (__graph__, __weight__*, level_*,
// point_*, class_*). It is exported so the graph and classify packages,
// which live outside this package, can use it; ordinary user code should
// always call Insert.
func (s *Space) InsertInternal(v Vector) error {
	return s.insert(v, true)
}

// Get returns the vector named name and whether it was present.
func (s *Space) Get(name string) (Vector, bool) {
	v, ok := s.vectors[name]
	return v, ok
}

// MustGet returns the vector named name, or a MissingPrerequisite error
// naming it.
func (s *Space) MustGet(name string) (Vector, error) {
	v, ok := s.vectors[name]
	if !ok {
		return Vector{}, fmt.Errorf("%w: vector %q not found in space", ErrMissingPrerequisite, name)
	}
	return v, nil
}

// Remove deletes the vector named name from the Space, if present. Used by
// the graph engine to drop the old __graph__ vector before installing a
// rebuilt one.
func (s *Space) Remove(name string) {
	if _, ok := s.vectors[name]; !ok {
		return
	}
	delete(s.vectors, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Replace overwrites the vector named name in place, preserving its
// position in iteration order. name must already exist.
func (s *Space) Replace(v Vector) error {
	if _, ok := s.vectors[v.name]; !ok {
		return fmt.Errorf("%w: vector %q not found in space", ErrMissingPrerequisite, v.name)
	}
	if v.dims != s.dims || v.alphabet != s.alphabet {
		return fmt.Errorf("%w: replacement vector %q is dims/alphabet-incompatible with space", ErrContractViolation, v.name)
	}
	s.vectors[v.name] = v
	return nil
}

// Names returns the vector names in insertion order.
func (s *Space) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Iterate returns every vector in the Space in deterministic insertion
// order, required so that training/class-building orderings are
// reproducible from a seed.
func (s *Space) Iterate() []Vector {
	out := make([]Vector, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.vectors[name])
	}
	return out
}
