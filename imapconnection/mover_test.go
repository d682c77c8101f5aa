// SPDX-License-Identifier: GPL-3.0-or-later
package imapconnection

import (
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
)

const validFolder = "inbox/valid/2026-10-16"

func TestMoveMover_MoveReady(t *testing.T) {
	mover := moveMover{nil}

	notMoveReadyReason, err := mover.moveReady()
	assert.NoError(t, notMoveReadyReason)
	assert.NoError(t, err)
}

func TestMoveMover_Move(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	conn := NewMockmoveClient(ctrl)
	mover := moveMover{conn}

	conn.EXPECT().
		UidMove(gomock.Eq(seqSetOf(reportUid)), gomock.Eq(validFolder)).
		Return(nil)

	err := mover.move(reportUid, validFolder)
	assert.NoError(t, err)
}

func TestMoveMover_MoveFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	conn := NewMockmoveClient(ctrl)
	mover := moveMover{conn}

	conn.EXPECT().
		UidMove(gomock.Eq(seqSetOf(reportUid)), gomock.Eq(validFolder)).
		Return(errors.New("NO [TRYCREATE] no such mailbox"))

	err := mover.move(reportUid, validFolder)
	assert.EqualError(t, err, "could not move message 4711 to inbox/valid/2026-10-16: NO [TRYCREATE] no such mailbox")
}

func TestCompatibilityMover_MoveReady(t *testing.T) {
	notReadyErr := errors.New("delete not ready")
	tests := []struct {
		name   string
		reason error
	}{
		{"ready", nil},
		{"notready", notReadyErr},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			conn := NewMockcopyAndDeleteMoveClient(ctrl)
			mover := compatibilityMover{conn}

			conn.EXPECT().
				deleteReady().
				Return(tc.reason, nil)

			notMoveReadyReason, err := mover.moveReady()
			assert.Equal(t, tc.reason, notMoveReadyReason)
			assert.NoError(t, err)
		})
	}
}

func TestCompatibilityMover_Move(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	conn := NewMockcopyAndDeleteMoveClient(ctrl)
	mover := compatibilityMover{conn}

	gomock.InOrder(
		conn.EXPECT().
			deleteReady().
			Return(nil, nil),
		conn.EXPECT().
			UidCopy(gomock.Eq(seqSetOf(reportUid)), validFolder).
			Return(nil),
		conn.EXPECT().
			delete(reportUid).
			Return(nil),
	)

	err := mover.move(reportUid, validFolder)
	assert.NoError(t, err)
}

func TestCompatibilityMover_MoveButNotReady(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	conn := NewMockcopyAndDeleteMoveClient(ctrl)
	mover := compatibilityMover{conn}

	conn.EXPECT().
		deleteReady().
		Return(ErrDeletedFlagPresent, nil)

	err := mover.move(reportUid, validFolder)
	assert.EqualError(t, err, "inbox is not ready for delete, cannot move (copy&delete): inbox has other messages with the deleted flag set")
	assert.True(t, errors.Is(err, ErrDeletedFlagPresent))
}

func TestCompatibilityMover_CopyFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	conn := NewMockcopyAndDeleteMoveClient(ctrl)
	mover := compatibilityMover{conn}

	conn.EXPECT().
		deleteReady().
		Return(nil, nil)
	conn.EXPECT().
		UidCopy(gomock.Eq(seqSetOf(reportUid)), validFolder).
		Return(errors.New("copy refused"))

	err := mover.move(reportUid, validFolder)
	assert.EqualError(t, err, "could not copy message 4711 to inbox/valid/2026-10-16: copy refused")
}
