// SPDX-License-Identifier: GPL-3.0-or-later
package mail

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/emersion/go-message/mail"
)

var ErrAttachmentNotFound = errors.New("attachment not found")

type Part struct {
	// Index is the position of the attachment among all attachments of the mail, starting at 0.
	Index    int
	Filename string
	MimeType string
	Size     int64
}

type ParsedMail struct {
	Body        string
	Attachments []Part
}

// ParseMail walks the MIME tree of rawMail, concatenating the text bodies and collecting attachment metadata.
func ParseMail(rawMail []byte) (*ParsedMail, error) {
	parsed := &ParsedMail{}

	err := walkAttachments(rawMail, func(part Part, body io.Reader) (bool, error) {
		n, err := io.Copy(io.Discard, body)
		if err != nil {
			return false, fmt.Errorf("could not read attachment %s: %w", part.Filename, err)
		}
		part.Size = n
		parsed.Attachments = append(parsed.Attachments, part)
		return true, nil
	}, func(text string) {
		parsed.Body += text
	})
	if err != nil {
		return nil, err
	}

	return parsed, nil
}

// AttachmentContent returns the decoded content of the attachment at index.
func AttachmentContent(rawMail []byte, index int) ([]byte, error) {
	var content []byte
	found := false

	err := walkAttachments(rawMail, func(part Part, body io.Reader) (bool, error) {
		if part.Index != index {
			return true, nil
		}
		data, err := io.ReadAll(body)
		if err != nil {
			return false, fmt.Errorf("could not read attachment %s: %w", part.Filename, err)
		}
		content = data
		found = true
		return false, nil
	}, nil)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("attachment %d: %w", index, ErrAttachmentNotFound)
	}

	return content, nil
}

func walkAttachments(rawMail []byte, onAttachment func(Part, io.Reader) (bool, error), onText func(string)) error {
	mr, err := mail.CreateReader(bytes.NewReader(rawMail))
	if err != nil {
		return fmt.Errorf("could not parse mail: %w", err)
	}
	defer mr.Close()

	index := 0
	for {
		p, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("unexpected error while reading parts: %w", err)
		}

		var part *Part
		switch h := p.Header.(type) {
		case *mail.InlineHeader:
			contentType, params, _ := h.ContentType()
			_, dispositionParams, _ := h.ContentDisposition()
			name := dispositionParams["filename"]
			if len(name) == 0 {
				name = params["name"]
			}

			// Named inline parts count as attachments, the same way webmail clients list them.
			if len(name) > 0 {
				part = &Part{Filename: name, MimeType: strings.ToLower(contentType)}
				break
			}

			if onText == nil {
				continue
			}
			if !strings.HasPrefix(contentType, "text/plain") && !strings.HasPrefix(contentType, "text/html") {
				continue
			}
			body, err := io.ReadAll(p.Body)
			if err != nil {
				return fmt.Errorf("could not read body part: %w", err)
			}
			onText(string(body))

		case *mail.AttachmentHeader:
			filename, err := h.Filename()
			if err != nil {
				filename = ""
			}
			contentType, _, err := h.ContentType()
			if err != nil || len(contentType) == 0 {
				contentType = "application/octet-stream"
			}
			part = &Part{Filename: filename, MimeType: strings.ToLower(contentType)}
		}

		if part == nil {
			continue
		}

		part.Index = index
		index++

		cont, err := onAttachment(*part, p.Body)
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
	}
}
