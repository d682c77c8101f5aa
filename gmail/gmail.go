// SPDX-License-Identifier: GPL-3.0-or-later
package gmail

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/CrawX/go-report-triage/domain"
	"github.com/CrawX/go-report-triage/log"
	"github.com/CrawX/go-report-triage/mail"

	"github.com/sirupsen/logrus"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

const (
	user       = "me"
	inboxLabel = "INBOX"
)

var ErrNoAttachmentId = errors.New("attachment has no id")

// Store uses the Gmail API as MailStore and ReplySender. Labels act as folders.
type Store struct {
	svc *gmail.Service
	now func() time.Time
	l   *logrus.Logger
}

func NewStore(ctx context.Context, credentialsFile, tokenFile string) (*Store, error) {
	l := log.Logger(log.LOG_GMAIL)

	client, err := httpClient(ctx, credentialsFile, tokenFile, l)
	if err != nil {
		return nil, err
	}

	return NewStoreWithOptions(ctx, option.WithHTTPClient(client))
}

// NewStoreWithOptions allows pointing the store to a different endpoint.
func NewStoreWithOptions(ctx context.Context, opts ...option.ClientOption) (*Store, error) {
	svc, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("could not create gmail service: %w", err)
	}

	return &Store{
		svc: svc,
		now: time.Now,
		l:   log.Logger(log.LOG_GMAIL),
	}, nil
}

func (s *Store) Search(ctx context.Context, query string, maxResults int) ([]*domain.CandidateMessage, error) {
	resp, err := s.svc.Users.Messages.List(user).Q(query).MaxResults(int64(maxResults)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("could not list messages: %w", err)
	}

	s.l.WithFields(logrus.Fields{"query": query, "count": len(resp.Messages)}).Debug("Listed messages")

	candidates := []*domain.CandidateMessage{}
	for _, ref := range resp.Messages {
		msg, err := s.svc.Users.Messages.Get(user, ref.Id).Format("full").Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("could not get message %s: %w", ref.Id, err)
		}

		candidate, err := candidateFromMessage(msg)
		if err != nil {
			return nil, fmt.Errorf("could not read message %s: %w", ref.Id, err)
		}
		candidates = append(candidates, candidate)
	}

	return candidates, nil
}

func candidateFromMessage(msg *gmail.Message) (*domain.CandidateMessage, error) {
	candidate := &domain.CandidateMessage{
		Id:          msg.Id,
		ThreadId:    msg.ThreadId,
		Labels:      msg.LabelIds,
		Snippet:     msg.Snippet,
		Headers:     map[string]string{},
		Attachments: []domain.Attachment{},
	}
	if msg.Payload == nil {
		return candidate, nil
	}

	for _, h := range msg.Payload.Headers {
		name := strings.ToLower(h.Name)
		if _, ok := candidate.Headers[name]; !ok {
			candidate.Headers[name] = h.Value
		}
	}

	body := &strings.Builder{}
	err := walkParts(msg.Payload, candidate, body)
	if err != nil {
		return nil, err
	}
	candidate.Body = body.String()

	return candidate, nil
}

func walkParts(part *gmail.MessagePart, candidate *domain.CandidateMessage, body *strings.Builder) error {
	if len(part.Filename) > 0 {
		attachment := domain.Attachment{
			Filename: part.Filename,
			MimeType: strings.ToLower(part.MimeType),
		}
		if part.Body != nil {
			attachment.Size = part.Body.Size
			attachment.AttachmentId = part.Body.AttachmentId
		}
		candidate.Attachments = append(candidate.Attachments, attachment)
		return nil
	}

	if (part.MimeType == "text/plain" || part.MimeType == "text/html") && part.Body != nil && len(part.Body.Data) > 0 {
		text, err := decodeData(part.Body.Data)
		if err != nil {
			return fmt.Errorf("could not decode %s body: %w", part.MimeType, err)
		}
		body.Write(text)
	}

	for _, child := range part.Parts {
		err := walkParts(child, candidate, body)
		if err != nil {
			return err
		}
	}
	return nil
}

// decodeData accepts the base64url payloads of the API with and without padding.
func decodeData(data string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(strings.TrimRight(data, "="))
}

func (s *Store) DownloadAttachment(ctx context.Context, messageId, attachmentId, filename, destDir string) (string, error) {
	if len(attachmentId) == 0 {
		return "", fmt.Errorf("%s: %w", filename, ErrNoAttachmentId)
	}

	body, err := s.svc.Users.Messages.Attachments.Get(user, messageId, attachmentId).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("could not get attachment: %w", err)
	}

	content, err := decodeData(body.Data)
	if err != nil {
		return "", fmt.Errorf("could not decode attachment: %w", err)
	}

	path := filepath.Join(destDir, filepath.Base(filename))
	err = os.WriteFile(path, content, 0o600)
	if err != nil {
		return "", fmt.Errorf("could not write attachment: %w", err)
	}

	s.l.WithFields(logrus.Fields{"message": messageId, "file": path, "size": len(content)}).Debug("Downloaded attachment")
	return path, nil
}

func (s *Store) ListFolders(ctx context.Context) ([]domain.Folder, error) {
	resp, err := s.svc.Users.Labels.List(user).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("could not list labels: %w", err)
	}

	folders := []domain.Folder{}
	for _, label := range resp.Labels {
		folders = append(folders, domain.Folder{Id: label.Id, Name: label.Name})
	}
	return folders, nil
}

func (s *Store) CreateFolder(ctx context.Context, name string) (domain.Folder, error) {
	label, err := s.svc.Users.Labels.Create(user, &gmail.Label{
		Name:                  name,
		LabelListVisibility:   "labelShow",
		MessageListVisibility: "show",
	}).Context(ctx).Do()
	if err != nil {
		return domain.Folder{}, fmt.Errorf("could not create label %s: %w", name, err)
	}

	s.l.WithFields(logrus.Fields{"label": name, "id": label.Id}).Info("Created label")
	return domain.Folder{Id: label.Id, Name: label.Name}, nil
}

func (s *Store) Move(ctx context.Context, messageId, folderId string, removeFromInbox bool) error {
	request := &gmail.ModifyMessageRequest{
		AddLabelIds: []string{folderId},
	}
	if removeFromInbox {
		request.RemoveLabelIds = []string{inboxLabel}
	}

	_, err := s.svc.Users.Messages.Modify(user, messageId, request).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("could not modify labels of %s: %w", messageId, err)
	}
	return nil
}

// Send delivers reply from the authorized account. Gmail fills in the From header.
func (s *Store) Send(ctx context.Context, reply domain.Reply) (string, error) {
	raw, err := mail.BuildReply("", reply, s.now())
	if err != nil {
		return "", fmt.Errorf("could not build reply: %w", err)
	}

	sent, err := s.svc.Users.Messages.Send(user, &gmail.Message{
		Raw:      base64.URLEncoding.EncodeToString(raw),
		ThreadId: reply.ThreadId,
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("could not send reply: %w", err)
	}

	s.l.WithFields(logrus.Fields{"to": reply.To, "id": sent.Id}).Debug("Sent reply")
	return sent.Id, nil
}

func (s *Store) Close() error {
	return nil
}
