// SPDX-License-Identifier: GPL-3.0-or-later
package triage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// acquireScratch creates the download directory of the run. The returned release func removes it again and only
// logs failures.
func acquireScratch(base string, date time.Time, l *logrus.Logger) (string, func(), error) {
	dir := filepath.Join(base, "temp_"+date.Format("2006-01-02"))
	err := os.MkdirAll(dir, 0o700)
	if err != nil {
		return "", nil, fmt.Errorf("could not create scratch dir: %w", err)
	}

	release := func() {
		err := os.RemoveAll(dir)
		if err != nil {
			l.WithFields(logrus.Fields{"dir": dir, "error": err}).Warn("Could not remove scratch dir")
			return
		}
		l.WithField("dir", dir).Debug("Removed scratch dir")
	}
	return dir, release, nil
}
