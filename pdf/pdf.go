// SPDX-License-Identifier: GPL-3.0-or-later
package pdf

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// ReadError is returned for files that cannot be opened or decoded as PDF.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("could not read pdf %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

type Reader struct{}

func NewReader() *Reader {
	return &Reader{}
}

// ExtractText returns the plain text of all pages in page order.
func (r *Reader) ExtractText(path string) (text string, err error) {
	// the pdf library panics on some malformed cross reference tables
	defer func() {
		if rec := recover(); rec != nil {
			text = ""
			err = &ReadError{Path: path, Err: fmt.Errorf("malformed document: %v", rec)}
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", &ReadError{Path: path, Err: err}
	}
	defer f.Close()

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", &ReadError{Path: path, Err: err}
	}

	buffer := &bytes.Buffer{}
	_, err = buffer.ReadFrom(plain)
	if err != nil {
		return "", &ReadError{Path: path, Err: err}
	}

	return buffer.String(), nil
}
