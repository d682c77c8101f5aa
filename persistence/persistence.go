// SPDX-License-Identifier: GPL-3.0-or-later
package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/CrawX/go-report-triage/domain"
	"github.com/CrawX/go-report-triage/log"
	"github.com/CrawX/go-report-triage/persistence/migrations"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rubenv/sql-migrate"
	"github.com/sirupsen/logrus"
)

// Persistence journals every filed message so a later run does not reply to or file it twice.
type Persistence struct {
	db *sqlx.DB
	l  *logrus.Logger
}

func NewPersistence(datasource string) (*Persistence, error) {
	db, err := sqlx.Connect("sqlite3", datasource)
	if err != nil {
		return nil, fmt.Errorf("could not open db: %w", err)
	}
	db.SetMaxOpenConns(1)

	l := log.Logger(log.LOG_PERSISTENCE)
	l.WithField("file", datasource).Info("Connected")

	migrationSource := &migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrations.FS,
		Root:       migrations.Root,
	}

	_, err = db.Exec(`PRAGMA journal_mode=WAL`)
	if err != nil {
		return nil, fmt.Errorf("could not set journal mode: %w", err)
	}
	_, err = db.Exec(`PRAGMA synchronous=normal`)
	if err != nil {
		return nil, fmt.Errorf("could not set synchronous mode: %w", err)
	}
	_, err = db.Exec(`PRAGMA foreign_keys=ON`)
	if err != nil {
		return nil, fmt.Errorf("could not enable foreign keys: %w", err)
	}

	appliedMigrations, err := migrate.Exec(db.DB, "sqlite3", migrationSource, migrate.Up)
	if err != nil {
		return nil, fmt.Errorf("could not migrate to newest version: %w", err)
	}

	l.WithField("migrations", appliedMigrations).Debug("Executed migrations")

	return &Persistence{
		db: db,
		l:  l,
	}, nil
}

func (p *Persistence) Close() error {
	err := p.db.Close()
	if err != nil {
		return fmt.Errorf("could not close db: %w", err)
	}
	p.l.Info("Disconnected")
	return nil
}

func (p *Persistence) IsFiled(messageId string) (bool, error) {
	count := 0
	err := p.db.Get(
		&count,
		`SELECT COUNT(*) FROM filed_messages WHERE messageid = ?`,
		messageId,
	)
	if err != nil {
		return false, fmt.Errorf("could not query db: %w", err)
	}

	return count > 0, nil
}

func (p *Persistence) SaveFiled(message domain.FiledMessage) error {
	tx, err := p.db.BeginTxx(context.TODO(), nil)
	if err != nil {
		return fmt.Errorf("could not start transaction: %w", err)
	}

	result, err := tx.Exec(
		"INSERT INTO filed_messages(runid, messageid, subject, sender, outcome, reason, foldername, ledgerfile, filedat) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)",
		message.RunId, message.MessageId, message.Subject, message.Sender, string(message.Outcome), message.Reason,
		message.FolderName, message.LedgerFile, message.FiledAt.UTC(),
	)
	if err != nil {
		return txEnd(tx, fmt.Errorf("could not save filed message: %w", err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return txEnd(tx, fmt.Errorf("could not get id of filed message: %w", err))
	}

	row := message.Row
	_, err = tx.Exec(
		"INSERT INTO ledger_rows(filedmessageid, filename, nationalid, nationalidvalid, postalcode, postalcodevalid, error) VALUES(?, ?, ?, ?, ?, ?, ?)",
		id, row.Filename, row.NationalId, row.NationalIdValid, row.PostalCode, row.PostalCodeValid, row.Error,
	)
	if err != nil {
		return txEnd(tx, fmt.Errorf("could not save ledger row: %w", err))
	}

	err = txEnd(tx, nil)
	if err != nil {
		return err
	}

	p.l.WithFields(logrus.Fields{"id": id, "message": message.MessageId, "folder": message.FolderName}).Debug("Persisted filed message")
	return nil
}

func (p *Persistence) FiledInRun(runId string) ([]*domain.SavedFiledMessage, error) {
	dbMessages := []struct {
		Id              int64
		RunId           string
		MessageId       string
		Subject         string
		Sender          string
		Outcome         string
		Reason          string
		FolderName      string
		LedgerFile      string
		FiledAt         time.Time
		Filename        string
		NationalId      string
		NationalIdValid bool
		PostalCode      string
		PostalCodeValid bool
		Error           string
	}{}

	err := p.db.Select(
		&dbMessages,
		`SELECT m.id, m.runid, m.messageid, m.subject, m.sender, m.outcome, m.reason, m.foldername, m.ledgerfile, m.filedat,
			r.filename, r.nationalid, r.nationalidvalid, r.postalcode, r.postalcodevalid, r.error
		FROM filed_messages m JOIN ledger_rows r ON r.filedmessageid = m.id
		WHERE m.runid = ? ORDER BY m.id`,
		runId,
	)
	if err != nil {
		return nil, fmt.Errorf("could not query db: %w", err)
	}

	messages := []*domain.SavedFiledMessage{}
	for _, m := range dbMessages {
		messages = append(
			messages,
			&domain.SavedFiledMessage{
				Id: m.Id,
				FiledMessage: domain.FiledMessage{
					RunId:      m.RunId,
					MessageId:  m.MessageId,
					Subject:    m.Subject,
					Sender:     m.Sender,
					Outcome:    domain.Outcome(m.Outcome),
					Reason:     m.Reason,
					FolderName: m.FolderName,
					LedgerFile: m.LedgerFile,
					FiledAt:    m.FiledAt,
					Row: domain.LedgerRow{
						Filename:        m.Filename,
						NationalId:      m.NationalId,
						NationalIdValid: m.NationalIdValid,
						PostalCode:      m.PostalCode,
						PostalCodeValid: m.PostalCodeValid,
						Error:           m.Error,
					},
				},
			},
		)
	}

	p.l.WithFields(logrus.Fields{"run": runId, "count": len(messages)}).Debug("Found filed messages")

	return messages, nil
}

func txEnd(tx *sqlx.Tx, err error) error {
	if err == nil {
		err = tx.Commit()
		if err != nil {
			return fmt.Errorf("could not commit tx: %w", err)
		}
	} else {
		rollbackErr := tx.Rollback()
		if rollbackErr != nil {
			errStr := err.Error()
			return fmt.Errorf("%s, could not rollback tx: %w", errStr, rollbackErr)
		} else {
			return err
		}
	}

	return nil
}
