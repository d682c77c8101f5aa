// SPDX-License-Identifier: GPL-3.0-or-later
package pdf

import "github.com/CrawX/go-report-triage/domain"

type Text struct {
	Path string
	Text string
	Err  error
}

// ConcurrentReader runs the embedded reader on several documents at once. Results keep the order of the paths.
type ConcurrentReader struct {
	domain.DocumentReader
}

func (cr *ConcurrentReader) ExtractAll(paths []string, concurrency int) []Text {
	if concurrency < 1 {
		concurrency = 1
	}

	semaphore := make(chan bool, concurrency)
	results := make([]Text, len(paths))
	for i := 0; i < len(paths); i++ {
		semaphore <- true
		go func(index int) {
			text, err := cr.ExtractText(paths[index])
			results[index] = Text{Path: paths[index], Text: text, Err: err}
			<-semaphore
		}(i)
	}

	for i := 0; i < concurrency; i++ {
		semaphore <- true
	}

	return results
}
