package system

import "net/url"

// CandidatePredicate decides whether a refuel candidate qualifies as a route target
type CandidatePredicate func(candidate CandidateRecord) bool

// AcceptAll accepts every candidate
func AcceptAll(CandidateRecord) bool { return true }

// StationTypeIn accepts candidates whose station type is one of the given types.
// An empty list accepts everything.
func StationTypeIn(types ...string) CandidatePredicate {
	if len(types) == 0 {
		return AcceptAll
	}
	allowed := make(map[string]struct{}, len(types))
	for _, t := range types {
		allowed[t] = struct{}{}
	}
	return func(candidate CandidateRecord) bool {
		_, ok := allowed[candidate.StationType]
		return ok
	}
}

// SelectTargetNames filters candidates with the predicate and de-duplicates by system name,
// keeping the service's ranking order
func SelectTargetNames(candidates []CandidateRecord, predicate CandidatePredicate) []string {
	if predicate == nil {
		predicate = AcceptAll
	}

	seen := make(map[string]struct{}, len(candidates))
	names := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.SystemName == "" || !predicate(candidate) {
			continue
		}
		if _, dup := seen[candidate.SystemName]; dup {
			continue
		}
		seen[candidate.SystemName] = struct{}{}
		names = append(names, candidate.SystemName)
	}
	return names
}

// InaraURL links a system to its Inara search page
func InaraURL(name string) string {
	return "https://inara.cz/elite/starsystems/?search=" + url.QueryEscape(name)
}
