// SPDX-License-Identifier: GPL-3.0-or-later
package triage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/CrawX/go-report-triage/domain"
)

const (
	ValidTemplate    = "email_template_valido.html"
	RejectedTemplate = "email_template_invalido.html"

	datePlaceholder = "{DATE}"
	// DisplayDateFormat renders e.g. 16/10/2026 às 09:30
	DisplayDateFormat = "02/01/2006 às 15:04"
)

var ErrTemplateMissing = errors.New("reply template missing")

func templateName(outcome domain.Outcome) string {
	if outcome == domain.Valid {
		return ValidTemplate
	}
	return RejectedTemplate
}

func renderTemplate(dir string, outcome domain.Outcome, now time.Time) (string, error) {
	path := filepath.Join(dir, templateName(outcome))
	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrTemplateMissing, path)
	}
	if err != nil {
		return "", fmt.Errorf("could not read template: %w", err)
	}

	return strings.ReplaceAll(string(content), datePlaceholder, now.Format(DisplayDateFormat)), nil
}
