// SPDX-License-Identifier: GPL-3.0-or-later
package triage

import (
	"fmt"

	"github.com/CrawX/go-report-triage/domain"
)

// MergePolicy decides which fields count when a message carries more than one PDF.
type MergePolicy string

const (
	// LastWins uses the extraction of the last readable PDF, even if an earlier one was complete.
	LastWins MergePolicy = "last-wins"
	// FirstComplete uses the first PDF holding both fields. Without one, every field is taken from the first PDF
	// that has it.
	FirstComplete MergePolicy = "first-complete"
)

func ParseMergePolicy(s string) (MergePolicy, error) {
	switch MergePolicy(s) {
	case LastWins, FirstComplete:
		return MergePolicy(s), nil
	case "":
		return LastWins, nil
	}
	return "", fmt.Errorf("unknown merge policy %q, use %s or %s", s, LastWins, FirstComplete)
}

type extraction struct {
	filename string
	fields   domain.ExtractedFields
}

type accumulator struct {
	policy MergePolicy

	last     *extraction
	complete *extraction

	merged     domain.ExtractedFields
	mergedFrom string
}

func newAccumulator(policy MergePolicy) *accumulator {
	return &accumulator{policy: policy}
}

func (a *accumulator) add(filename string, fields domain.ExtractedFields) {
	a.last = &extraction{filename: filename, fields: fields}

	if a.complete == nil && fields.Complete() {
		a.complete = a.last
	}

	contributed := false
	if !a.merged.HasNationalId() && fields.HasNationalId() {
		a.merged.NationalId = fields.NationalId
		contributed = true
	}
	if !a.merged.HasPostalCode() && fields.HasPostalCode() {
		a.merged.PostalCode = fields.PostalCode
		contributed = true
	}
	if contributed && len(a.mergedFrom) == 0 {
		a.mergedFrom = filename
	}
}

// classification returns the result for all added extractions. Without any readable PDF both fields count as
// missing.
func (a *accumulator) classification() domain.Classification {
	if a.last == nil {
		return domain.Classify("", domain.ExtractedFields{})
	}

	if a.policy == LastWins {
		return domain.Classify(a.last.filename, a.last.fields)
	}

	if a.complete != nil {
		return domain.Classify(a.complete.filename, a.complete.fields)
	}
	if len(a.mergedFrom) == 0 {
		return domain.Classify(a.last.filename, a.merged)
	}
	return domain.Classify(a.mergedFrom, a.merged)
}
