// SPDX-License-Identifier: GPL-3.0-or-later
package domain

//go:generate mockgen -destination=mocks/persistence.go -package=mocks . Journal,DocumentReader,Ledger
import "time"

const (
	LedgerPlaceholder = "N/A"
	LedgerYes         = "Sim"
	LedgerNo          = "Não"
)

var LedgerColumns = []string{"Arquivo", "CPF", "CPF Válido", "CEP", "CEP Válido", "Erro"}

type LedgerRow struct {
	Filename        string
	NationalId      string
	NationalIdValid bool
	PostalCode      string
	PostalCodeValid bool
	Error           string
}

func LedgerRowFor(c Classification) LedgerRow {
	row := LedgerRow{
		Filename:   c.Filename,
		NationalId: LedgerPlaceholder,
		PostalCode: LedgerPlaceholder,
		Error:      c.Reason,
	}
	if c.Fields.HasNationalId() {
		row.NationalId = *c.Fields.NationalId
		row.NationalIdValid = true
	}
	if c.Fields.HasPostalCode() {
		row.PostalCode = *c.Fields.PostalCode
		row.PostalCodeValid = true
	}
	return row
}

// Cells renders the row in LedgerColumns order.
func (r LedgerRow) Cells() []string {
	return []string{
		r.Filename,
		r.NationalId,
		yesNo(r.NationalIdValid),
		r.PostalCode,
		yesNo(r.PostalCodeValid),
		r.Error,
	}
}

func yesNo(b bool) string {
	if b {
		return LedgerYes
	}
	return LedgerNo
}

type Ledger interface {
	// Create writes a new ledger with the given header, it is a no-op if path already exists.
	Create(path string, columns []string) error
	// Append fails if the ledger at path does not exist.
	Append(path string, row []string) error
}

type DocumentReader interface {
	ExtractText(path string) (string, error)
}

type FiledMessage struct {
	RunId      string
	MessageId  string
	Subject    string
	Sender     string
	Outcome    Outcome
	Reason     string
	FolderName string
	LedgerFile string
	Row        LedgerRow
	FiledAt    time.Time
}

type SavedFiledMessage struct {
	Id int64
	FiledMessage
}

type Journal interface {
	Close() error
	IsFiled(messageId string) (bool, error)
	SaveFiled(message FiledMessage) error
	FiledInRun(runId string) ([]*SavedFiledMessage, error)
}
