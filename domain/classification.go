// SPDX-License-Identifier: GPL-3.0-or-later
package domain

type Outcome string

const (
	Valid    = Outcome("valid")
	Rejected = Outcome("rejected")
)

type ExtractedFields struct {
	NationalId *string
	PostalCode *string
}

func (f ExtractedFields) HasNationalId() bool {
	return f.NationalId != nil
}

func (f ExtractedFields) HasPostalCode() bool {
	return f.PostalCode != nil
}

func (f ExtractedFields) Complete() bool {
	return f.HasNationalId() && f.HasPostalCode()
}

func (f ExtractedFields) Empty() bool {
	return !f.HasNationalId() && !f.HasPostalCode()
}

const (
	ReasonNone          = "N/A"
	ReasonNoPdf         = "Nenhum anexo PDF encontrado"
	ReasonBothInvalid   = "CPF e CEP inválidos"
	ReasonIdInvalid     = "CPF inválido"
	ReasonPostalInvalid = "CEP inválido"
)

// Classification is the per-message result that drives the ledger row, the reply and the destination folder.
type Classification struct {
	Outcome Outcome
	Reason  string
	Fields  ExtractedFields
	// Filename of the attachment the classification is based on, empty if there was no PDF.
	Filename string
}

func Classify(filename string, fields ExtractedFields) Classification {
	c := Classification{
		Outcome:  Rejected,
		Fields:   fields,
		Filename: filename,
	}

	switch {
	case !fields.HasNationalId() && !fields.HasPostalCode():
		c.Reason = ReasonBothInvalid
	case !fields.HasNationalId():
		c.Reason = ReasonIdInvalid
	case !fields.HasPostalCode():
		c.Reason = ReasonPostalInvalid
	default:
		c.Outcome = Valid
		c.Reason = ReasonNone
	}

	return c
}

func NoPdfClassification() Classification {
	return Classification{
		Outcome: Rejected,
		Reason:  ReasonNoPdf,
	}
}

type Summary struct {
	Found     int
	Processed int
	Valid     int
	Rejected  int
	Failed    int
	Skipped   int
}
