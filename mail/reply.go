// SPDX-License-Identifier: GPL-3.0-or-later
package mail

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/CrawX/go-report-triage/domain"

	"github.com/PuerkitoBio/goquery"
	"github.com/emersion/go-message/mail"
)

// BuildReply renders reply as an RFC 5322 message. HTML replies are sent as multipart/alternative with a plain
// text part derived from the HTML.
func BuildReply(from string, reply domain.Reply, date time.Time) ([]byte, error) {
	buffer := &bytes.Buffer{}

	header := mail.Header{}
	header.SetDate(date)
	header.SetSubject(reply.Subject)
	if len(from) > 0 {
		header.SetAddressList("From", []*mail.Address{{Address: from}})
	}
	header.SetAddressList("To", []*mail.Address{{Address: reply.To}})
	if len(reply.InReplyTo) > 0 {
		header.SetMsgIDList("In-Reply-To", []string{strings.Trim(reply.InReplyTo, "<>")})
		header.SetMsgIDList("References", []string{strings.Trim(reply.InReplyTo, "<>")})
	}
	if err := header.GenerateMessageID(); err != nil {
		return nil, fmt.Errorf("could not generate message id: %w", err)
	}

	mailWriter, err := mail.CreateWriter(buffer, header)
	if err != nil {
		return nil, fmt.Errorf("could not create mail writer: %w", err)
	}

	inlineWriter, err := mailWriter.CreateInline()
	if err != nil {
		return nil, fmt.Errorf("could not create inline writer: %w", err)
	}

	text := reply.Body
	if reply.IsHtml {
		text, err = HTMLToText(reply.Body)
		if err != nil {
			return nil, fmt.Errorf("could not derive text part: %w", err)
		}
	}

	err = writePart(inlineWriter, "text/plain", text)
	if err != nil {
		return nil, err
	}
	if reply.IsHtml {
		err = writePart(inlineWriter, "text/html", reply.Body)
		if err != nil {
			return nil, err
		}
	}

	err = inlineWriter.Close()
	if err != nil {
		return nil, fmt.Errorf("could not close inline writer: %w", err)
	}
	err = mailWriter.Close()
	if err != nil {
		return nil, fmt.Errorf("could not close mail writer: %w", err)
	}

	return buffer.Bytes(), nil
}

func writePart(inlineWriter *mail.InlineWriter, contentType string, body string) error {
	partHeader := mail.InlineHeader{}
	partHeader.SetContentType(contentType, map[string]string{"charset": "utf-8"})

	partWriter, err := inlineWriter.CreatePart(partHeader)
	if err != nil {
		return fmt.Errorf("could not create %s part: %w", contentType, err)
	}

	_, err = io.WriteString(partWriter, body)
	if err != nil {
		return fmt.Errorf("could not write %s part: %w", contentType, err)
	}

	err = partWriter.Close()
	if err != nil {
		return fmt.Errorf("could not close %s part: %w", contentType, err)
	}
	return nil
}

// HTMLToText flattens an HTML document to its visible text, one block per line.
func HTMLToText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("could not parse html: %w", err)
	}

	doc.Find("script, style, head").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("p, div, h1, h2, h3, h4, li, tr").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	lines := []string{}
	for _, line := range strings.Split(doc.Text(), "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if len(line) > 0 {
			lines = append(lines, line)
		}
	}

	return strings.Join(lines, "\n"), nil
}
