// SPDX-License-Identifier: GPL-3.0-or-later
package events

import (
	"sync"

	"github.com/CrawX/go-report-triage/domain"

	"github.com/sirupsen/logrus"
)

type Stage string

const (
	StageSearch             Stage = "search"
	StageFetched            Stage = "fetched"
	StageAttachmentsScanned Stage = "attachments_scanned"
	StageExtracted          Stage = "extracted"
	StageClassified         Stage = "classified"
	StageLogged             Stage = "logged"
	StageReplied            Stage = "replied"
	StageFiled              Stage = "filed"
)

type EventType string

const (
	EventTypeTransition        EventType = "transition"
	EventTypeAttachmentSkipped EventType = "attachment_skipped"
	EventTypeMessageSkipped    EventType = "message_skipped"
	EventTypeMessageFailed     EventType = "message_failed"
	EventTypeFatal             EventType = "fatal"
)

type Event struct {
	Stage      Stage
	Type       EventType
	MessageId  string
	Attachment string
	Outcome    domain.Outcome
	Err        error
	Detail     string
}

type Sink interface {
	Emit(evt Event)
}

type Multi []Sink

func (m Multi) Emit(evt Event) {
	for _, s := range m {
		s.Emit(evt)
	}
}

type Counts struct {
	Transitions        map[Stage]int
	AttachmentsSkipped int
	MessagesSkipped    int
	MessagesFailed     int
	Fatal              int
	LastError          error
}

type Collector struct {
	mu     sync.Mutex
	counts Counts
}

func NewCollector() *Collector {
	return &Collector{counts: Counts{Transitions: map[Stage]int{}}}
}

func (c *Collector) Emit(evt Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch evt.Type {
	case EventTypeTransition:
		c.counts.Transitions[evt.Stage]++
	case EventTypeAttachmentSkipped:
		c.counts.AttachmentsSkipped++
	case EventTypeMessageSkipped:
		c.counts.MessagesSkipped++
	case EventTypeMessageFailed:
		c.counts.MessagesFailed++
	case EventTypeFatal:
		c.counts.Fatal++
	}
	if evt.Err != nil {
		c.counts.LastError = evt.Err
	}
}

func (c *Collector) Snapshot() Counts {
	c.mu.Lock()
	defer c.mu.Unlock()

	snapshot := c.counts
	snapshot.Transitions = make(map[Stage]int, len(c.counts.Transitions))
	for k, v := range c.counts.Transitions {
		snapshot.Transitions[k] = v
	}
	return snapshot
}

// LogSink narrates events on a logrus logger, transitions at debug and problems at warn/error.
type LogSink struct {
	l *logrus.Logger
}

func NewLogSink(l *logrus.Logger) *LogSink {
	return &LogSink{l: l}
}

func (s *LogSink) Emit(evt Event) {
	fields := logrus.Fields{"stage": evt.Stage}
	if len(evt.MessageId) > 0 {
		fields["message"] = evt.MessageId
	}
	if len(evt.Attachment) > 0 {
		fields["attachment"] = evt.Attachment
	}
	if len(evt.Outcome) > 0 {
		fields["outcome"] = evt.Outcome
	}
	if len(evt.Detail) > 0 {
		fields["detail"] = evt.Detail
	}
	if evt.Err != nil {
		fields["error"] = evt.Err
	}
	entry := s.l.WithFields(fields)

	switch evt.Type {
	case EventTypeTransition:
		entry.Debug("Stage reached")
	case EventTypeAttachmentSkipped:
		entry.Warn("Skipping attachment")
	case EventTypeMessageSkipped:
		entry.Info("Skipping message")
	case EventTypeMessageFailed:
		entry.Error("Could not process message")
	case EventTypeFatal:
		entry.Error("Aborting run")
	}
}
