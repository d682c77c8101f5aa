// SPDX-License-Identifier: GPL-3.0-or-later
package imapconnection

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/CrawX/go-report-triage/domain"
	"github.com/CrawX/go-report-triage/log"
	"github.com/CrawX/go-report-triage/mail"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap-compress"
	"github.com/emersion/go-imap-move"
	"github.com/emersion/go-imap-uidplus"
	"github.com/emersion/go-imap/client"
	"github.com/sirupsen/logrus"
)

const inbox = "INBOX"

// ImapConnection is a MailStore on top of a plain IMAP account. Messages are addressed by their INBOX uid,
// attachments by their position in the message and folders by mailbox name.
type ImapConnection struct {
	connection  *client.Client
	mailDeleter deleter
	mailMover   mover

	server    string
	delimiter string

	selectedFolder string

	l *logrus.Logger
}

type uidPlusConn struct {
	*ImapConnection
	uidplusClient *uidplus.Client
}

func (u *uidPlusConn) UidExpunge(seqSet *imap.SeqSet, ch chan uint32) error {
	return u.uidplusClient.UidExpunge(seqSet, ch)
}

func NewImapConnection(server string, user string, password string, useCompression bool) (*ImapConnection, error) {
	imapClient, err := client.DialTLS(server, nil)
	if err != nil {
		return nil, fmt.Errorf("could not dial to imap: %w", err)
	}

	err = imapClient.Login(user, password)
	if err != nil {
		return nil, fmt.Errorf("could not login to imap: %w", err)
	}

	conn := &ImapConnection{
		connection: imapClient,
		server:     server,
		l:          log.Logger(log.LOG_IMAP),
	}

	baseLogger := conn.l.WithFields(logrus.Fields{"server": server})
	baseLogger.Debug("Logged in to server")

	if useCompression {
		compressClient := compress.NewClient(imapClient)
		compressSupported, err := compressClient.SupportCompress(compress.Deflate)
		if err != nil {
			return nil, fmt.Errorf("could not check for COMPRESS support: %w", err)
		}
		if compressSupported {
			err = compressClient.Compress(compress.Deflate)
			if err != nil {
				return nil, fmt.Errorf("could not enable compression: %w", err)
			}
			baseLogger.Debug("COMPRESS=DEFLATE enabled")
		} else {
			baseLogger.Info("COMPRESS=DEFLATE not supported on server, continuing uncompressed")
		}
	}

	uidPlusClient := uidplus.NewClient(imapClient)
	uidPlusSupported, err := uidPlusClient.SupportUidPlus()
	if err != nil {
		return nil, fmt.Errorf("could not check for UIDPLUS support: %w", err)
	}

	moveClient := move.NewClient(imapClient)
	moveSupported, err := moveClient.SupportMove()
	if err != nil {
		return nil, fmt.Errorf("could not check for MOVE support: %w", err)
	}

	if uidPlusSupported {
		baseLogger.Debug("UIDPLUS supported on server, using UID expunge")
		conn.mailDeleter = &uidPlusDeleter{
			imapConn: &uidPlusConn{
				ImapConnection: conn,
				uidplusClient:  uidPlusClient,
			},
		}
	} else {
		baseLogger.Info("UIDPLUS not supported on server, falling back to flag&expunge")
		conn.mailDeleter = &compatibilityDeleter{
			imapConn: conn,
		}
	}

	if moveSupported {
		baseLogger.Debug("MOVE supported on server")
		conn.mailMover = &moveMover{
			moveClient: moveClient,
		}
	} else {
		baseLogger.Info("MOVE not supported on server, falling back to copy&delete")
		conn.mailMover = &compatibilityMover{
			imapConn: conn,
		}
	}

	conn.delimiter, err = conn.hierarchyDelimiter()
	if err != nil {
		return nil, err
	}

	return conn, nil
}

func (ic *ImapConnection) hierarchyDelimiter() (string, error) {
	mailboxes := make(chan *imap.MailboxInfo, 1)
	done := make(chan error, 1)
	go func() {
		done <- ic.connection.List("", "", mailboxes)
	}()

	delimiter := "/"
	for m := range mailboxes {
		if len(m.Delimiter) > 0 {
			delimiter = m.Delimiter
		}
	}

	err := <-done
	if err != nil {
		return "", fmt.Errorf("could not query hierarchy delimiter: %w", err)
	}

	ic.l.WithField("delimiter", delimiter).Debug("Found hierarchy delimiter")
	return delimiter, nil
}

func (ic *ImapConnection) selectInbox() error {
	if ic.selectedFolder == inbox {
		return nil
	}

	_, err := ic.connection.Select(inbox, false)
	if err != nil {
		return fmt.Errorf("could not select inbox: %w", err)
	}

	ic.selectedFolder = inbox
	return nil
}

func (ic *ImapConnection) Search(ctx context.Context, query string, maxResults int) ([]*domain.CandidateMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	err := ic.selectInbox()
	if err != nil {
		return nil, err
	}

	phrases := SubjectPhrases(query)
	uidLists := [][]uint32{}
	if len(phrases) == 0 {
		uids, err := ic.connection.UidSearch(imap.NewSearchCriteria())
		if err != nil {
			return nil, fmt.Errorf("could not search inbox: %w", err)
		}
		uidLists = append(uidLists, uids)
	}
	for _, phrase := range phrases {
		criteria := imap.NewSearchCriteria()
		criteria.Header.Add("Subject", phrase)
		uids, err := ic.connection.UidSearch(criteria)
		if err != nil {
			return nil, fmt.Errorf("could not search inbox for %q: %w", phrase, err)
		}
		uidLists = append(uidLists, uids)
	}

	uids := newestFirst(maxResults, uidLists...)
	ic.l.WithFields(logrus.Fields{"phrases": phrases, "count": len(uids)}).Debug("Searched inbox")
	if len(uids) == 0 {
		return []*domain.CandidateMessage{}, nil
	}

	raws, err := ic.fetchRaw(uids)
	if err != nil {
		return nil, err
	}

	// keep the newest first order of the search, fetch responses arrive in server order
	candidates := []*domain.CandidateMessage{}
	for _, uid := range uids {
		raw, ok := raws[uid]
		if !ok {
			ic.l.WithField("uid", uid).Warn("Message vanished between search and fetch")
			continue
		}
		candidate, err := candidateFromRaw(uid, raw.flags, raw.body)
		if err != nil {
			return nil, fmt.Errorf("could not parse message %d: %w", uid, err)
		}
		candidates = append(candidates, candidate)
	}

	return candidates, nil
}

type rawMessage struct {
	flags []string
	body  []byte
}

func (ic *ImapConnection) fetchRaw(uids []uint32) (map[uint32]rawMessage, error) {
	seqset := &imap.SeqSet{}
	seqset.AddNum(uids...)

	fullBodySection := &imap.BodySectionName{
		Peek: true,
	}
	fetchItems := []imap.FetchItem{fullBodySection.FetchItem(), imap.FetchFlags, imap.FetchUid}

	messages := make(chan *imap.Message, 10)
	done := make(chan error, 1)
	go func() {
		done <- ic.connection.UidFetch(seqset, fetchItems, messages)
	}()

	results := map[uint32]rawMessage{}
	var readErr error
	for msg := range messages {
		r := msg.GetBody(fullBodySection)
		if r == nil {
			readErr = fmt.Errorf("server returned no body for message %d", msg.Uid)
			continue
		}
		body, err := io.ReadAll(r)
		if err != nil {
			readErr = fmt.Errorf("could not read message body: %w", err)
			continue
		}
		results[msg.Uid] = rawMessage{flags: msg.Flags, body: body}
	}

	err := <-done
	if err != nil {
		return nil, fmt.Errorf("could not fetch messages: %w", err)
	}
	if readErr != nil {
		return nil, readErr
	}

	return results, nil
}

func candidateFromRaw(uid uint32, flags []string, rawMail []byte) (*domain.CandidateMessage, error) {
	headers, err := mail.HeaderInfos(rawMail)
	if err != nil {
		return nil, err
	}

	parsed, err := mail.ParseMail(rawMail)
	if err != nil {
		return nil, err
	}

	attachments := []domain.Attachment{}
	for _, part := range parsed.Attachments {
		attachments = append(attachments, domain.Attachment{
			Filename:     part.Filename,
			MimeType:     part.MimeType,
			Size:         part.Size,
			AttachmentId: strconv.Itoa(part.Index),
		})
	}

	return &domain.CandidateMessage{
		Id:          strconv.FormatUint(uint64(uid), 10),
		ThreadId:    headers["message-id"],
		Labels:      flags,
		Headers:     headers,
		Body:        parsed.Body,
		Attachments: attachments,
	}, nil
}

func parseUid(messageId string) (uint32, error) {
	uid, err := strconv.ParseUint(messageId, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid message id %q: %w", messageId, err)
	}
	return uint32(uid), nil
}

func (ic *ImapConnection) DownloadAttachment(ctx context.Context, messageId, attachmentId, filename, destDir string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	uid, err := parseUid(messageId)
	if err != nil {
		return "", err
	}
	index, err := strconv.Atoi(attachmentId)
	if err != nil {
		return "", fmt.Errorf("invalid attachment id %q: %w", attachmentId, err)
	}

	err = ic.selectInbox()
	if err != nil {
		return "", err
	}

	raws, err := ic.fetchRaw([]uint32{uid})
	if err != nil {
		return "", err
	}
	raw, ok := raws[uid]
	if !ok {
		return "", fmt.Errorf("message %d not found", uid)
	}

	content, err := mail.AttachmentContent(raw.body, index)
	if err != nil {
		return "", err
	}

	return writeAttachment(destDir, filename, content)
}

func writeAttachment(destDir, filename string, content []byte) (string, error) {
	path := filepath.Join(destDir, filepath.Base(filename))
	err := os.WriteFile(path, content, 0o600)
	if err != nil {
		return "", fmt.Errorf("could not write attachment: %w", err)
	}
	return path, nil
}

func (ic *ImapConnection) toMailbox(name string) string {
	return strings.ReplaceAll(name, "/", ic.delimiter)
}

func (ic *ImapConnection) fromMailbox(mailbox string) string {
	return strings.ReplaceAll(mailbox, ic.delimiter, "/")
}

func (ic *ImapConnection) ListFolders(ctx context.Context) ([]domain.Folder, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mailboxes := make(chan *imap.MailboxInfo, 10)
	done := make(chan error, 1)
	go func() {
		done <- ic.connection.List("", "*", mailboxes)
	}()

	folders := []domain.Folder{}
	for m := range mailboxes {
		folders = append(folders, domain.Folder{Id: m.Name, Name: ic.fromMailbox(m.Name)})
	}

	err := <-done
	if err != nil {
		return nil, fmt.Errorf("could not list mailboxes: %w", err)
	}

	ic.l.WithField("count", len(folders)).Debug("Listed mailboxes")
	return folders, nil
}

func (ic *ImapConnection) CreateFolder(ctx context.Context, name string) (domain.Folder, error) {
	if err := ctx.Err(); err != nil {
		return domain.Folder{}, err
	}

	mailbox := ic.toMailbox(name)
	err := ic.connection.Create(mailbox)
	if err != nil && !strings.Contains(strings.ToUpper(err.Error()), "ALREADYEXISTS") {
		return domain.Folder{}, fmt.Errorf("could not create mailbox %s: %w", mailbox, err)
	}

	ic.l.WithField("mailbox", mailbox).Info("Created mailbox")
	return domain.Folder{Id: mailbox, Name: name}, nil
}

func (ic *ImapConnection) Move(ctx context.Context, messageId, folderId string, removeFromInbox bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	uid, err := parseUid(messageId)
	if err != nil {
		return err
	}

	err = ic.selectInbox()
	if err != nil {
		return err
	}

	if !removeFromInbox {
		return ic.UidCopy(uidSet(uid), folderId)
	}

	return ic.mailMover.move(uid, folderId)
}

func (ic *ImapConnection) Close() error {
	return ic.connection.Logout()
}

func (ic *ImapConnection) UidCopy(seqset *imap.SeqSet, dest string) error {
	err := ic.connection.UidCopy(seqset, dest)
	if err != nil {
		return fmt.Errorf("could not copy: %w", err)
	}
	return nil
}

func (ic *ImapConnection) UidSearch(criteria *imap.SearchCriteria) ([]uint32, error) {
	return ic.connection.UidSearch(criteria)
}

func (ic *ImapConnection) Expunge(ch chan uint32) error {
	return ic.connection.Expunge(ch)
}

func (ic *ImapConnection) delete(uid uint32) error {
	return ic.mailDeleter.delete(uid)
}

func (ic *ImapConnection) deleteReady() (error, error) {
	return ic.mailDeleter.deleteReady()
}

func (ic *ImapConnection) flagDeleted(uid uint32) (*imap.SeqSet, error) {
	seqset := uidSet(uid)
	err := ic.connection.UidStore(seqset, imap.FormatFlagsOp(imap.AddFlags, true), []interface{}{imap.DeletedFlag}, nil)
	if err != nil {
		return nil, fmt.Errorf("could not set delete flag: %w", err)
	}

	return seqset, nil
}

func uidSet(uid uint32) *imap.SeqSet {
	seqset := &imap.SeqSet{}
	seqset.AddNum(uid)
	return seqset
}
