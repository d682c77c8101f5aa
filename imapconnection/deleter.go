// SPDX-License-Identifier: GPL-3.0-or-later
package imapconnection

//go:generate mockgen -destination=deleter_mocks_test.go -package=imapconnection -source deleter.go
import (
	"errors"
	"fmt"

	"github.com/emersion/go-imap"
)

var ErrDeletedFlagPresent = errors.New("inbox has other messages with the deleted flag set")

type deletedFlagger interface {
	flagDeleted(uid uint32) (*imap.SeqSet, error)
}

type deletedFlaggerAndUidExpunger interface {
	deletedFlagger
	UidExpunge(seqSet *imap.SeqSet, ch chan uint32) error
}

// uidPlusDeleter expunges exactly the given message (RFC 4315).
type uidPlusDeleter struct {
	imapConn deletedFlaggerAndUidExpunger
}

func (u *uidPlusDeleter) delete(uid uint32) error {
	seqset, err := u.imapConn.flagDeleted(uid)
	if err != nil {
		return fmt.Errorf("could not flag message as deleted: %w", err)
	}

	out := make(chan uint32)
	done := make(chan error, 1)
	go func() {
		done <- u.imapConn.UidExpunge(seqset, out)
	}()

	return expectSingleExpunge(out, done)
}

func (u *uidPlusDeleter) deleteReady() (error, error) {
	return nil, nil
}

type deleteFlaggerAndExpunger interface {
	deletedFlagger
	Expunge(ch chan uint32) error
	UidSearch(criteria *imap.SearchCriteria) (uids []uint32, err error)
}

// compatibilityDeleter relies on a plain EXPUNGE which removes every flagged message of the mailbox, so it only
// proceeds when no other message carries the deleted flag.
type compatibilityDeleter struct {
	imapConn deleteFlaggerAndExpunger
}

func (c *compatibilityDeleter) delete(uid uint32) error {
	notDeleteReadyReason, err := c.deleteReady()
	if err != nil {
		return fmt.Errorf("could not check for delete readiness: %w", err)
	}

	if notDeleteReadyReason != nil {
		return fmt.Errorf("inbox is not ready for delete: %w", notDeleteReadyReason)
	}

	_, err = c.imapConn.flagDeleted(uid)
	if err != nil {
		return fmt.Errorf("could not set deleted flag: %w", err)
	}

	out := make(chan uint32)
	done := make(chan error, 1)
	go func() {
		done <- c.imapConn.Expunge(out)
	}()

	return expectSingleExpunge(out, done)
}

func (c *compatibilityDeleter) deleteReady() (error, error) {
	criteria := imap.NewSearchCriteria()
	criteria.WithFlags = []string{imap.DeletedFlag}
	uids, err := c.imapConn.UidSearch(criteria)
	if err != nil {
		return nil, fmt.Errorf("could not search for deleted messages: %w", err)
	}

	if len(uids) > 0 {
		return ErrDeletedFlagPresent, nil
	}
	return nil, nil
}

func expectSingleExpunge(out chan uint32, done chan error) error {
	expunged := 0
	for range out {
		expunged++
	}

	err := <-done
	if err != nil {
		return fmt.Errorf("could not expunge message: %w", err)
	}

	if expunged != 1 {
		return fmt.Errorf("unexpected number of expunges, expected 1 got %d", expunged)
	}
	return nil
}
