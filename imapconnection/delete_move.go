// SPDX-License-Identifier: GPL-3.0-or-later
package imapconnection

import "github.com/emersion/go-imap"

//go:generate mockgen -destination=delete_move_mocks_test.go -package=imapconnection -source delete_move.go

// Interfaces for removing a message from the selected mailbox and moving it into another one. They live in one
// file because source-mode mockgen cannot resolve embedded interfaces spread over multiple files and unexported
// interfaces rule out reflection mode.

type deleter interface {
	delete(uid uint32) error
	// deleteReady returns a reason as first value if deleting would touch other messages.
	deleteReady() (error, error)
}

type mover interface {
	move(uid uint32, mailbox string) error
	moveReady() (error, error)
}

type copyAndDeleteMoveClient interface {
	deleter
	UidCopy(seqset *imap.SeqSet, dest string) error
}
