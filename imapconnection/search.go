// SPDX-License-Identifier: GPL-3.0-or-later
package imapconnection

import (
	"sort"
	"strings"
)

// SubjectPhrases translates the subject term of a Gmail style query into phrases for IMAP SUBJECT searches.
// `subject:(a b OR "c d")` yields ["a b", "c d"], `subject:"a b"` and `subject:a` yield a single phrase. Other terms
// such as in:inbox are implied by searching the INBOX and are ignored.
func SubjectPhrases(query string) []string {
	idx := strings.Index(strings.ToLower(query), "subject:")
	if idx < 0 {
		return nil
	}
	rest := query[idx+len("subject:"):]

	var term string
	switch {
	case strings.HasPrefix(rest, "("):
		end := strings.Index(rest, ")")
		if end < 0 {
			end = len(rest)
		}
		term = rest[1:end]
	case strings.HasPrefix(rest, `"`):
		end := strings.Index(rest[1:], `"`)
		if end < 0 {
			term = rest[1:]
		} else {
			term = rest[1 : end+1]
		}
		return nonEmpty([]string{term})
	default:
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			return nil
		}
		return []string{fields[0]}
	}

	return nonEmpty(strings.Split(term, " OR "))
}

func nonEmpty(phrases []string) []string {
	result := []string{}
	for _, p := range phrases {
		p = strings.Trim(strings.TrimSpace(p), `"`)
		if len(p) > 0 {
			result = append(result, p)
		}
	}
	return result
}

// newestFirst merges the uid lists, sorts them descending and caps the result at max. Higher uids were
// delivered later.
func newestFirst(max int, uidLists ...[]uint32) []uint32 {
	seen := map[uint32]bool{}
	uids := []uint32{}
	for _, list := range uidLists {
		for _, uid := range list {
			if seen[uid] {
				continue
			}
			seen[uid] = true
			uids = append(uids, uid)
		}
	}

	sort.Slice(uids, func(i, j int) bool { return uids[i] > uids[j] })
	if max > 0 && len(uids) > max {
		uids = uids[:max]
	}
	return uids
}
