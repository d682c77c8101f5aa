// SPDX-License-Identifier: GPL-3.0-or-later
package mail

import (
	"bytes"
	"fmt"
	"mime"
	stdmail "net/mail"
	"regexp"
	"strings"

	"github.com/emersion/go-message/charset"
)

var angleAddress = regexp.MustCompile(`<(.+?)>`)

var wordDecoder = &mime.WordDecoder{
	CharsetReader: charset.Reader,
}

// HeaderInfos parses the header block of rawMail and returns the decoded headers keyed by lower-cased name. For
// repeated headers the first occurrence wins.
func HeaderInfos(rawMail []byte) (map[string]string, error) {
	msg, err := stdmail.ReadMessage(bytes.NewReader(rawMail))
	if err != nil {
		return nil, fmt.Errorf("could not parse mail: %w", err)
	}

	headers := map[string]string{}
	for key, values := range msg.Header {
		if len(values) == 0 {
			continue
		}
		decoded, err := DecodeHeader(values[0])
		if err != nil {
			return nil, fmt.Errorf("could not decode %s header: %w", key, err)
		}
		headers[strings.ToLower(key)] = decoded
	}

	return headers, nil
}

func DecodeHeader(value string) (string, error) {
	decoded, err := wordDecoder.DecodeHeader(value)
	if err != nil {
		return "", err
	}
	return decoded, nil
}

// SenderAddress returns the address between angle brackets of a From header, or the trimmed header otherwise.
func SenderAddress(from string) string {
	match := angleAddress.FindStringSubmatch(from)
	if match != nil {
		return match[1]
	}
	return strings.TrimSpace(from)
}

func ReplySubject(subject string) string {
	return "Re: " + subject
}

func ShortSubject(subject string) string {
	if len([]rune(subject)) > 30 {
		subject = string([]rune(subject)[:30]) + "..."
	}
	return subject
}
