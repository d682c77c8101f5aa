// SPDX-License-Identifier: GPL-3.0-or-later
package triage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/CrawX/go-report-triage/domain"
	"github.com/CrawX/go-report-triage/events"
	"github.com/CrawX/go-report-triage/fields"
	"github.com/CrawX/go-report-triage/folders"
	"github.com/CrawX/go-report-triage/ledger"
	"github.com/CrawX/go-report-triage/log"
	"github.com/CrawX/go-report-triage/mail"
	"github.com/CrawX/go-report-triage/pdf"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	// ErrFatal marks errors that abort the whole run, everything else only fails a single message.
	ErrFatal = errors.New("fatal")

	errSkipped = errors.New("message skipped")
)

type Triage struct {
	store   domain.MailStore
	sender  domain.ReplySender
	reader  *pdf.ConcurrentReader
	ledger  domain.Ledger
	journal domain.Journal
	router  *folders.Router
	sink    events.Sink

	configuration *configuration

	l *logrus.Logger
}

func NewTriage(store domain.MailStore, sender domain.ReplySender, reader domain.DocumentReader, ledger domain.Ledger, journal domain.Journal, router *folders.Router, sink events.Sink, configFunc ...ConfigFunc) (*Triage, error) {
	config := defaultConfiguration()
	for _, f := range configFunc {
		err := f(config)
		if err != nil {
			return nil, fmt.Errorf("error applying configuration: %w", err)
		}
	}

	l := log.Logger(log.LOG_TRIAGE)
	if sink == nil {
		sink = events.NewLogSink(l)
	}

	return &Triage{
		store:         store,
		sender:        sender,
		reader:        &pdf.ConcurrentReader{DocumentReader: reader},
		ledger:        ledger,
		journal:       journal,
		router:        router,
		sink:          sink,
		configuration: config,
		l:             l,
	}, nil
}

// run carries the state of a single Run call.
type run struct {
	id          string
	date        time.Time
	scratch     string
	ledgerPath  string
	ledgerReady bool
	summary     domain.Summary
}

// Run processes all matching messages once. Per-message problems are reported through the event sink and
// counted as failed, only errors wrapping ErrFatal abort the run and are returned.
func (t *Triage) Run(ctx context.Context) (domain.Summary, error) {
	r := &run{
		id:   uuid.NewString(),
		date: t.configuration.Clock(),
	}
	r.ledgerPath = filepath.Join(t.configuration.LedgerDir, ledger.Filename(r.date))
	l := t.l.WithFields(logrus.Fields{"run": r.id, "dryrun": t.configuration.DryRun})

	candidates, err := t.store.Search(ctx, t.configuration.Query, t.configuration.MaxResults)
	if err != nil {
		return r.summary, t.fatal(fmt.Errorf("%w: could not search messages: %w", ErrFatal, err))
	}
	r.summary.Found = len(candidates)
	t.sink.Emit(events.Event{Stage: events.StageSearch, Type: events.EventTypeTransition, Detail: fmt.Sprintf("%d messages", len(candidates))})

	if len(candidates) == 0 {
		l.Info("No matching messages")
		return r.summary, nil
	}
	l.WithField("count", len(candidates)).Info("Found messages to triage")

	scratch, release, err := acquireScratch(t.configuration.ScratchDir, r.date, t.l)
	if err != nil {
		return r.summary, t.fatal(fmt.Errorf("%w: %w", ErrFatal, err))
	}
	defer release()
	r.scratch = scratch

	for _, msg := range candidates {
		if err := ctx.Err(); err != nil {
			return r.summary, err
		}

		err := t.process(ctx, r, msg)
		switch {
		case err == nil:
		case errors.Is(err, errSkipped):
			r.summary.Skipped++
		case errors.Is(err, ErrFatal):
			return r.summary, t.fatal(err)
		default:
			r.summary.Failed++
			t.sink.Emit(events.Event{Type: events.EventTypeMessageFailed, MessageId: msg.Id, Err: err, Detail: mail.ShortSubject(msg.Subject())})
		}
	}

	l.WithFields(logrus.Fields{
		"found":     r.summary.Found,
		"processed": r.summary.Processed,
		"valid":     r.summary.Valid,
		"rejected":  r.summary.Rejected,
		"failed":    r.summary.Failed,
		"skipped":   r.summary.Skipped,
	}).Info("Run finished")

	return r.summary, nil
}

func (t *Triage) fatal(err error) error {
	t.sink.Emit(events.Event{Type: events.EventTypeFatal, Err: err})
	return err
}

func (t *Triage) emit(stage events.Stage, msg *domain.CandidateMessage, outcome domain.Outcome) {
	t.sink.Emit(events.Event{Stage: stage, Type: events.EventTypeTransition, MessageId: msg.Id, Outcome: outcome})
}

func (t *Triage) process(ctx context.Context, r *run, msg *domain.CandidateMessage) error {
	t.emit(events.StageFetched, msg, "")

	filed, err := t.journal.IsFiled(msg.Id)
	if err != nil {
		return fmt.Errorf("could not query journal: %w", err)
	}
	if filed {
		t.sink.Emit(events.Event{Stage: events.StageFetched, Type: events.EventTypeMessageSkipped, MessageId: msg.Id, Detail: "already filed"})
		return errSkipped
	}

	classification := t.classify(ctx, r, msg)
	t.emit(events.StageClassified, msg, classification.Outcome)
	t.l.WithFields(logrus.Fields{
		"message": msg.Id,
		"subject": mail.ShortSubject(msg.Subject()),
		"outcome": classification.Outcome,
		"reason":  classification.Reason,
	}).Info("Classified message")

	row := domain.LedgerRowFor(classification)
	err = t.logRow(r, row)
	if err != nil {
		return err
	}
	r.summary.Processed++
	if classification.Outcome == domain.Valid {
		r.summary.Valid++
	} else {
		r.summary.Rejected++
	}
	t.emit(events.StageLogged, msg, classification.Outcome)

	err = t.reply(ctx, msg, classification)
	if err != nil {
		return err
	}
	t.emit(events.StageReplied, msg, classification.Outcome)

	folderName, err := t.file(ctx, r, msg, classification)
	if err != nil {
		return err
	}
	t.emit(events.StageFiled, msg, classification.Outcome)

	if t.configuration.DryRun {
		return nil
	}

	err = t.journal.SaveFiled(domain.FiledMessage{
		RunId:      r.id,
		MessageId:  msg.Id,
		Subject:    msg.Subject(),
		Sender:     mail.SenderAddress(msg.From()),
		Outcome:    classification.Outcome,
		Reason:     classification.Reason,
		FolderName: folderName,
		LedgerFile: r.ledgerPath,
		Row:        row,
		FiledAt:    t.configuration.Clock(),
	})
	if err != nil {
		return fmt.Errorf("could not journal filed message: %w", err)
	}

	return nil
}

// classify downloads every PDF attachment, reads them concurrently and merges the extracted fields. Attachments
// that cannot be downloaded or read are skipped.
func (t *Triage) classify(ctx context.Context, r *run, msg *domain.CandidateMessage) domain.Classification {
	pdfs := msg.PdfAttachments()
	t.sink.Emit(events.Event{Stage: events.StageAttachmentsScanned, Type: events.EventTypeTransition, MessageId: msg.Id, Detail: fmt.Sprintf("%d of %d attachments are pdf", len(pdfs), len(msg.Attachments))})

	if len(pdfs) == 0 {
		t.l.WithFields(logrus.Fields{"message": msg.Id, "subject": mail.ShortSubject(msg.Subject())}).Info("No PDF attachment found")
		return domain.NoPdfClassification()
	}

	downloaded := []domain.Attachment{}
	paths := []string{}
	for i, attachment := range pdfs {
		path, err := t.download(ctx, attachmentDir(r.scratch, msg.Id, i), msg, attachment)
		if err != nil {
			t.skipAttachment(msg, attachment, err)
			continue
		}
		downloaded = append(downloaded, attachment)
		paths = append(paths, path)
	}

	acc := newAccumulator(t.configuration.MergePolicy)
	for i, text := range t.reader.ExtractAll(paths, t.configuration.Concurrency) {
		attachment := downloaded[i]
		if text.Err != nil {
			t.skipAttachment(msg, attachment, fmt.Errorf("could not read attachment: %w", text.Err))
			continue
		}

		extracted := fields.Extract(text.Text)
		acc.add(attachment.Filename, extracted)
		t.sink.Emit(events.Event{
			Stage:      events.StageExtracted,
			Type:       events.EventTypeTransition,
			MessageId:  msg.Id,
			Attachment: attachment.Filename,
			Detail:     fmt.Sprintf("national id: %t, postal code: %t", extracted.HasNationalId(), extracted.HasPostalCode()),
		})
	}

	return acc.classification()
}

func (t *Triage) skipAttachment(msg *domain.CandidateMessage, attachment domain.Attachment, err error) {
	t.sink.Emit(events.Event{Stage: events.StageAttachmentsScanned, Type: events.EventTypeAttachmentSkipped, MessageId: msg.Id, Attachment: attachment.Filename, Err: err})
}

var errNoAttachmentReference = errors.New("attachment has no reference")

var pathSeparators = strings.NewReplacer("/", "_", "\\", "_")

// attachmentDir is the download directory of the index-th PDF of a message. PDFs of one message may share a
// filename, so every one of them gets its own directory.
func attachmentDir(scratch, messageId string, index int) string {
	return filepath.Join(scratch, pathSeparators.Replace(messageId), strconv.Itoa(index))
}

func (t *Triage) download(ctx context.Context, destDir string, msg *domain.CandidateMessage, attachment domain.Attachment) (string, error) {
	if len(attachment.AttachmentId) == 0 {
		return "", errNoAttachmentReference
	}

	err := os.MkdirAll(destDir, 0o700)
	if err != nil {
		return "", fmt.Errorf("could not create attachment dir: %w", err)
	}

	path, err := t.store.DownloadAttachment(ctx, msg.Id, attachment.AttachmentId, attachment.Filename, destDir)
	if err != nil {
		return "", fmt.Errorf("could not download attachment: %w", err)
	}

	_, err = os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("downloaded attachment is missing: %w", err)
	}
	return path, nil
}

func (t *Triage) logRow(r *run, row domain.LedgerRow) error {
	if t.configuration.DryRun {
		t.l.WithFields(logrus.Fields{"file": r.ledgerPath, "row": row.Cells()}).Info("Not writing ledger row due to dry-run")
		return nil
	}

	if !r.ledgerReady {
		err := t.ledger.Create(r.ledgerPath, domain.LedgerColumns)
		if err != nil {
			return fmt.Errorf("could not create ledger: %w", err)
		}
		r.ledgerReady = true
	}

	err := t.ledger.Append(r.ledgerPath, row.Cells())
	if err != nil {
		return fmt.Errorf("could not append ledger row: %w", err)
	}
	return nil
}

func (t *Triage) reply(ctx context.Context, msg *domain.CandidateMessage, classification domain.Classification) error {
	body, err := renderTemplate(t.configuration.TemplateDir, classification.Outcome, t.configuration.Clock())
	if err != nil {
		return err
	}

	to := mail.SenderAddress(msg.From())
	if len(to) == 0 {
		return fmt.Errorf("message has no sender to reply to")
	}

	reply := domain.Reply{
		To:        to,
		Subject:   mail.ReplySubject(msg.Subject()),
		Body:      body,
		IsHtml:    true,
		InReplyTo: msg.Header("message-id"),
		ThreadId:  msg.ThreadId,
	}

	if t.configuration.DryRun {
		t.l.WithFields(logrus.Fields{"to": reply.To, "subject": mail.ShortSubject(reply.Subject)}).Info("Not replying due to dry-run")
		return nil
	}

	id, err := t.sender.Send(ctx, reply)
	if err != nil {
		return fmt.Errorf("could not send reply to %s: %w", to, err)
	}

	t.l.WithFields(logrus.Fields{"to": to, "id": id, "outcome": classification.Outcome}).Info("Replied")
	return nil
}

// file moves msg into the folder of its outcome and returns the folder name. Failing to resolve the folder is
// fatal since every later message would fail the same way.
func (t *Triage) file(ctx context.Context, r *run, msg *domain.CandidateMessage, classification domain.Classification) (string, error) {
	name := folders.Path(classification.Outcome, r.date)

	if t.configuration.DryRun {
		t.l.WithFields(logrus.Fields{"message": msg.Id, "folder": name}).Info("Not moving message due to dry-run")
		return name, nil
	}

	folder, err := t.router.ResolveOrCreate(ctx, classification.Outcome, r.date)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrFatal, err)
	}

	err = t.store.Move(ctx, msg.Id, folder.Id, true)
	if err != nil {
		return "", fmt.Errorf("could not move message to %s: %w", folder.Name, err)
	}

	t.l.WithFields(logrus.Fields{"message": msg.Id, "folder": folder.Name}).Debug("Filed message")
	return folder.Name, nil
}
