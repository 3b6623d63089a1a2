// Package families turns the raw results of a validation run into the
// numbered finding list users see. Every finding is normalized to a canonical
// family key (the logically intended member name) so that several issue types
// on the same entity present as one family: #N for a lone finding,
// #N.1 … #N.k for a family of several.
package families

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/venalab/hiervet/pkg/hierarchy"
	"github.com/venalab/hiervet/pkg/validate"
)

// Family is a set of findings sharing a normalized member identity.
type Family struct {
	Key      string
	Findings []hierarchy.Finding
}

// Assemble runs the full pipeline: collect the run's results into uniform
// findings, suppress redundant secondary whitespace warnings, group by
// family, and assign display numbers. Deterministic for a given result.
func Assemble(result validate.Result, table hierarchy.Table, logger zerolog.Logger) []hierarchy.Finding {
	findings := Collect(result, logger)
	findings = Suppress(findings)
	return Number(Group(findings, table))
}

// Group buckets findings by canonical family key, preserving the order in
// which keys first appear. An orphan whose normalized parent name coincides
// with the normalized name of a real member is folded into that member's
// family: it is the same logical entity referenced with noise. The fold maps
// onto the member's decorated display name, since that is the form
// member-carrying findings are keyed under. That fold is a heuristic;
// coincidentally similar names can land in one family.
func Group(findings []hierarchy.Finding, table hierarchy.Table) []Family {
	memberKeys := make(map[string]string)
	for _, name := range table.MemberNames() {
		key := hierarchy.NormalizeName(name)
		if key == "" {
			continue
		}
		memberKeys[key] = hierarchy.NormalizeName(hierarchy.DisplayName(name, table.AliasOf(name)))
	}

	index := make(map[string]int)
	var families []Family
	for _, finding := range findings {
		key := familyKey(finding, memberKeys)
		if i, ok := index[key]; ok {
			families[i].Findings = append(families[i].Findings, finding)
			continue
		}
		index[key] = len(families)
		families = append(families, Family{Key: key, Findings: []hierarchy.Finding{finding}})
	}
	return families
}

// Number assigns display IDs in family order: a single-finding family gets
// #N, a multi-finding family gets #N.1 … #N.k in collection order.
func Number(families []Family) []hierarchy.Finding {
	var numbered []hierarchy.Finding
	for n, family := range families {
		if len(family.Findings) == 1 {
			f := family.Findings[0]
			f.ID = fmt.Sprintf("#%d", n+1)
			numbered = append(numbered, f)
			continue
		}
		for k, f := range family.Findings {
			f.ID = fmt.Sprintf("#%d.%d", n+1, k+1)
			numbered = append(numbered, f)
		}
	}
	return numbered
}

// Suppress drops secondary whitespace warnings — those naming only one of
// member/parent — when the same normalized name already appears in an
// Error-level finding: the error carries the story, the warning is an echo.
// A whitespace finding naming both columns is standalone and never dropped.
func Suppress(findings []hierarchy.Finding) []hierarchy.Finding {
	errorNames := make(map[string]bool)
	for _, f := range findings {
		if f.Severity != hierarchy.Error {
			continue
		}
		if key := hierarchy.NormalizeName(f.Member); key != "" {
			errorNames[key] = true
		}
		if key := hierarchy.NormalizeName(f.Parent); key != "" {
			errorNames[key] = true
		}
	}

	kept := findings[:0:0]
	for _, f := range findings {
		if f.Category == hierarchy.CategoryWhitespace && f.Severity == hierarchy.Warning {
			hasMember := f.Member != hierarchy.NoName
			hasParent := f.Parent != hierarchy.NoName
			if hasMember != hasParent {
				name := f.Member
				if !hasMember {
					name = f.Parent
				}
				if errorNames[hierarchy.NormalizeName(name)] {
					continue
				}
			}
		}
		kept = append(kept, f)
	}
	return kept
}

// familyKey derives the canonical grouping key for one finding. memberKeys
// maps a member's normalized raw name to its normalized decorated name.
func familyKey(f hierarchy.Finding, memberKeys map[string]string) string {
	if f.Member != hierarchy.NoName && f.Member != "" {
		if key := hierarchy.NormalizeName(f.Member); key != "" {
			return key
		}
		return f.Member
	}
	parentKey := hierarchy.NormalizeName(f.Parent)
	if parentKey == "" {
		return "(Orphan) " + f.Parent
	}
	if display, ok := memberKeys[parentKey]; ok {
		return display
	}
	return "(Orphan) " + parentKey
}
