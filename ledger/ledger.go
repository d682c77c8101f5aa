// SPDX-License-Identifier: GPL-3.0-or-later
package ledger

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/CrawX/go-report-triage/log"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

var ErrLedgerMissing = errors.New("ledger does not exist")

// Filename returns the name of the ledger for the run date.
func Filename(date time.Time) string {
	return fmt.Sprintf("dados_extraidos_%s.xlsx", date.Format("2006-01-02"))
}

// Xlsx is an append-only spreadsheet ledger, one header row followed by one row per processed message.
type Xlsx struct {
	mu sync.Mutex
	l  *logrus.Logger
}

func NewXlsx() *Xlsx {
	return &Xlsx{
		l: log.Logger(log.LOG_LEDGER),
	}
}

func (x *Xlsx) Create(path string, columns []string) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	_, err := os.Stat(path)
	if err == nil {
		x.l.WithField("file", path).Debug("Ledger exists")
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("could not stat ledger: %w", err)
	}

	err = os.MkdirAll(filepath.Dir(path), 0o755)
	if err != nil {
		return fmt.Errorf("could not create ledger dir: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	err = f.SetSheetRow(f.GetSheetName(f.GetActiveSheetIndex()), "A1", cells(columns))
	if err != nil {
		return fmt.Errorf("could not write header: %w", err)
	}

	err = f.SaveAs(path)
	if err != nil {
		return fmt.Errorf("could not save ledger: %w", err)
	}

	x.l.WithFields(logrus.Fields{"file": path, "columns": len(columns)}).Info("Created ledger")
	return nil
}

func (x *Xlsx) Append(path string, row []string) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	f, err := open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("could not read ledger rows: %w", err)
	}

	cell, err := excelize.CoordinatesToCellName(1, len(rows)+1)
	if err != nil {
		return fmt.Errorf("could not address row %d: %w", len(rows)+1, err)
	}

	err = f.SetSheetRow(sheet, cell, cells(row))
	if err != nil {
		return fmt.Errorf("could not write row: %w", err)
	}

	err = f.Save()
	if err != nil {
		return fmt.Errorf("could not save ledger: %w", err)
	}

	x.l.WithFields(logrus.Fields{"file": path, "row": len(rows) + 1}).Debug("Appended row")
	return nil
}

// Rows returns all rows including the header.
func (x *Xlsx) Rows(path string) ([][]string, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(f.GetActiveSheetIndex()))
	if err != nil {
		return nil, fmt.Errorf("could not read ledger rows: %w", err)
	}
	return rows, nil
}

func open(path string) (*excelize.File, error) {
	_, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", path, ErrLedgerMissing)
	}
	if err != nil {
		return nil, fmt.Errorf("could not stat ledger: %w", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not open ledger: %w", err)
	}
	return f, nil
}

func cells(values []string) *[]interface{} {
	row := make([]interface{}, 0, len(values))
	for _, v := range values {
		row = append(row, v)
	}
	return &row
}
