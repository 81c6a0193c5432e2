package routing

import (
	"github.com/crow-router/crow/internal/domain/shared"
)

// TargetSet is the set of acceptable route endpoints for one search.
// It keeps insertion order so status output and heuristic tie-breaks are deterministic.
type TargetSet struct {
	names   []string
	members map[string]struct{}
}

// NewTargetSet validates and de-duplicates target names.
// Returns *shared.NoTargetsSuppliedError when nothing is left.
func NewTargetSet(names []string) (TargetSet, error) {
	set := TargetSet{members: make(map[string]struct{}, len(names))}
	for _, raw := range names {
		name := shared.NormalizeSystemName(raw)
		if name == "" {
			return TargetSet{}, shared.NewValidationError("targets", "target system name cannot be empty")
		}
		if _, dup := set.members[name]; dup {
			continue
		}
		set.members[name] = struct{}{}
		set.names = append(set.names, name)
	}

	if len(set.names) == 0 {
		return TargetSet{}, shared.NewNoTargetsSuppliedError()
	}
	return set, nil
}

// Contains reports whether name is an acceptable endpoint
func (t TargetSet) Contains(name string) bool {
	_, ok := t.members[name]
	return ok
}

// Names returns a copy of the targets in insertion order
func (t TargetSet) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Len returns the number of distinct targets
func (t TargetSet) Len() int {
	return len(t.names)
}
