// SPDX-License-Identifier: GPL-3.0-or-later
package fields

import (
	"regexp"

	"github.com/CrawX/go-report-triage/domain"
)

var (
	// CPF, either 123.456.789-09 or 12345678909
	nationalIdPattern = regexp.MustCompile(`\b\d{3}\.?\d{3}\.?\d{3}-?\d{2}\b`)
	// CEP, either 12345-678 or 12345678
	postalCodePattern = regexp.MustCompile(`\b\d{5}-?\d{3}\b`)
)

// Extract returns the first national id and the first postal code found in text. Missing matches are nil.
func Extract(text string) domain.ExtractedFields {
	return domain.ExtractedFields{
		NationalId: firstMatch(nationalIdPattern, text),
		PostalCode: firstMatch(postalCodePattern, text),
	}
}

func firstMatch(pattern *regexp.Regexp, text string) *string {
	loc := pattern.FindStringIndex(text)
	if loc == nil {
		return nil
	}
	match := text[loc[0]:loc[1]]
	return &match
}
