// SPDX-License-Identifier: GPL-3.0-or-later
package imapconnection

//go:generate mockgen -destination=mover_mocks_test.go -package=imapconnection -source mover.go
import (
	"fmt"

	"github.com/emersion/go-imap"
)

type moveClient interface {
	UidMove(seqset *imap.SeqSet, dest string) error
}

// moveMover files a message with a single MOVE command (RFC 6851).
type moveMover struct {
	moveClient moveClient
}

func (m *moveMover) move(uid uint32, mailbox string) error {
	err := m.moveClient.UidMove(uidSet(uid), mailbox)
	if err != nil {
		return fmt.Errorf("could not move message %d to %s: %w", uid, mailbox, err)
	}
	return nil
}

func (m *moveMover) moveReady() (error, error) {
	return nil, nil
}

// compatibilityMover emulates MOVE by copying the message and deleting the original from the inbox.
type compatibilityMover struct {
	imapConn copyAndDeleteMoveClient
}

func (c *compatibilityMover) move(uid uint32, mailbox string) error {
	notDeleteReadyReason, err := c.moveReady()
	if err != nil {
		return fmt.Errorf("could not check for delete readiness to move: %w", err)
	}

	if notDeleteReadyReason != nil {
		return fmt.Errorf("inbox is not ready for delete, cannot move (copy&delete): %w", notDeleteReadyReason)
	}

	err = c.imapConn.UidCopy(uidSet(uid), mailbox)
	if err != nil {
		return fmt.Errorf("could not copy message %d to %s: %w", uid, mailbox, err)
	}

	err = c.imapConn.delete(uid)
	if err != nil {
		return fmt.Errorf("could not delete copied message %d: %w", uid, err)
	}

	return nil
}

func (c *compatibilityMover) moveReady() (error, error) {
	return c.imapConn.deleteReady()
}
