// SPDX-License-Identifier: GPL-3.0-or-later
package imapconnection

import (
	"os"
	"path"
	"testing"

	"github.com/emersion/go-imap"
	"github.com/stretchr/testify/require"
)

const reportUid = uint32(4711)

func seqSetOf(uids ...uint32) *imap.SeqSet {
	seqset := &imap.SeqSet{}
	seqset.AddNum(uids...)
	return seqset
}

func readMailFixture(t *testing.T, name string) []byte {
	rawMail, err := os.ReadFile(path.Join("..", "mail", "testdata", name))
	require.NoError(t, err)
	return rawMail
}

// expungeOnce answers an expunge with the given uids and closes the channel like the imap client does.
func expungeOnce(ch chan uint32, uids ...uint32) {
	for _, uid := range uids {
		ch <- uid
	}
	close(ch)
}
