// SPDX-License-Identifier: GPL-3.0-or-later
package imapconnection

import (
	"errors"
	"testing"

	"github.com/emersion/go-imap"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
)

func deletedCriteria() *imap.SearchCriteria {
	criteria := imap.NewSearchCriteria()
	criteria.WithFlags = []string{imap.DeletedFlag}
	return criteria
}

func TestUidPlusDeleter_DeleteReady(t *testing.T) {
	deleter := uidPlusDeleter{nil}

	notDeleteReadyReason, err := deleter.deleteReady()
	assert.NoError(t, notDeleteReadyReason)
	assert.NoError(t, err)
}

func TestUidPlusDeleter_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	conn := NewMockdeletedFlaggerAndUidExpunger(ctrl)
	deleter := uidPlusDeleter{conn}

	seqset := seqSetOf(reportUid)
	conn.EXPECT().
		flagDeleted(reportUid).
		Return(seqset, nil)

	conn.EXPECT().
		UidExpunge(gomock.Eq(seqset), gomock.Any()).
		DoAndReturn(func(seqSet *imap.SeqSet, ch chan uint32) error {
			expungeOnce(ch, 12)
			return nil
		})

	err := deleter.delete(reportUid)
	assert.NoError(t, err)
}

func TestUidPlusDeleter_DeleteNothingExpunged(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	conn := NewMockdeletedFlaggerAndUidExpunger(ctrl)
	deleter := uidPlusDeleter{conn}

	seqset := seqSetOf(reportUid)
	conn.EXPECT().
		flagDeleted(reportUid).
		Return(seqset, nil)

	conn.EXPECT().
		UidExpunge(gomock.Eq(seqset), gomock.Any()).
		DoAndReturn(func(seqSet *imap.SeqSet, ch chan uint32) error {
			expungeOnce(ch)
			return nil
		})

	err := deleter.delete(reportUid)
	assert.EqualError(t, err, "unexpected number of expunges, expected 1 got 0")
}

func TestCompatibilityDeleter_DeleteReady(t *testing.T) {
	tests := []struct {
		name     string
		flagged  []uint32
		expected error
	}{
		{"noflagged", []uint32{}, nil},
		{"flagged", []uint32{7}, ErrDeletedFlagPresent},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			conn := NewMockdeleteFlaggerAndExpunger(ctrl)
			deleter := compatibilityDeleter{conn}

			conn.EXPECT().
				UidSearch(gomock.Eq(deletedCriteria())).
				Return(tc.flagged, nil)

			notDeleteReadyReason, err := deleter.deleteReady()
			assert.Equal(t, tc.expected, notDeleteReadyReason)
			assert.NoError(t, err)
		})
	}
}

func TestCompatibilityDeleter_DeleteReadySearchFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	conn := NewMockdeleteFlaggerAndExpunger(ctrl)
	deleter := compatibilityDeleter{conn}

	conn.EXPECT().
		UidSearch(gomock.Eq(deletedCriteria())).
		Return(nil, errors.New("connection reset"))

	notDeleteReadyReason, err := deleter.deleteReady()
	assert.NoError(t, notDeleteReadyReason)
	assert.EqualError(t, err, "could not search for deleted messages: connection reset")
}

func TestCompatibilityDeleter_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	conn := NewMockdeleteFlaggerAndExpunger(ctrl)
	deleter := compatibilityDeleter{conn}

	gomock.InOrder(
		conn.EXPECT().
			UidSearch(gomock.Eq(deletedCriteria())).
			Return([]uint32{}, nil),
		conn.EXPECT().
			flagDeleted(reportUid).
			Return(seqSetOf(reportUid), nil),
		conn.EXPECT().
			Expunge(gomock.Any()).
			DoAndReturn(func(ch chan uint32) error {
				expungeOnce(ch, 3)
				return nil
			}),
	)

	err := deleter.delete(reportUid)
	assert.NoError(t, err)
}

func TestCompatibilityDeleter_DeleteButNotReady(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	conn := NewMockdeleteFlaggerAndExpunger(ctrl)
	deleter := compatibilityDeleter{conn}

	conn.EXPECT().
		UidSearch(gomock.Eq(deletedCriteria())).
		Return([]uint32{1}, nil)

	err := deleter.delete(reportUid)
	assert.EqualError(t, err, "inbox is not ready for delete: inbox has other messages with the deleted flag set")
}
