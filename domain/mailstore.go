// SPDX-License-Identifier: GPL-3.0-or-later
package domain

//go:generate mockgen -destination=mocks/mailstore.go -package=mocks . MailStore,ReplySender
import (
	"context"
	"strings"
)

const PdfMimeType = "application/pdf"

type Attachment struct {
	Filename string
	MimeType string
	Size     int64
	// AttachmentId is an opaque backend reference, empty when the backend did not provide one.
	AttachmentId string
}

func (a Attachment) IsPdf() bool {
	return a.MimeType == PdfMimeType
}

type CandidateMessage struct {
	Id       string
	ThreadId string
	Labels   []string
	Snippet  string
	// Headers are keyed by lower-cased header name.
	Headers     map[string]string
	Body        string
	Attachments []Attachment
}

func (m *CandidateMessage) Header(name string) string {
	return m.Headers[strings.ToLower(name)]
}

func (m *CandidateMessage) Subject() string {
	return m.Header("subject")
}

func (m *CandidateMessage) From() string {
	return m.Header("from")
}

// PdfAttachments returns the PDF attachments in message order, the rest is not relevant for extraction.
func (m *CandidateMessage) PdfAttachments() []Attachment {
	pdfs := []Attachment{}
	for _, a := range m.Attachments {
		if a.IsPdf() {
			pdfs = append(pdfs, a)
		}
	}
	return pdfs
}

type Folder struct {
	Id   string
	Name string
}

type MailStore interface {
	Search(ctx context.Context, query string, maxResults int) ([]*CandidateMessage, error)
	// DownloadAttachment stores the attachment below destDir and returns the written path.
	DownloadAttachment(ctx context.Context, messageId, attachmentId, filename, destDir string) (string, error)
	ListFolders(ctx context.Context) ([]Folder, error)
	CreateFolder(ctx context.Context, name string) (Folder, error)
	Move(ctx context.Context, messageId, folderId string, removeFromInbox bool) error
	Close() error
}

type Reply struct {
	To      string
	Subject string
	Body    string
	IsHtml  bool
	// InReplyTo is the Message-Id of the mail being answered, optional.
	InReplyTo string
	ThreadId  string
}

type ReplySender interface {
	Send(ctx context.Context, reply Reply) (string, error)
}
