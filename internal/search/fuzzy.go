// SPDX-License-Identifier: MPL-2.0

// Package search ranks discovered commands against a query. Matching is
// fuzzy-subsequence based; ranking combines the match score with a
// directory-proximity bonus so commands near the caller surface first.
package search

import (
	"strings"
	"unicode"

	"github.com/sahilm/fuzzy"

	"github.com/palrun/palrun/internal/scan"
	"github.com/palrun/palrun/pkg/command"
)

type (
	// Match is one ranked command. Index is the command's position in the
	// snapshot, used as the final stable tie-break.
	Match struct {
		Command command.Command
		Score   int
		Bonus   int
		Index   int
	}

	// Options controls one search.
	Options struct {
		// ContextEnabled adds the directory-proximity bonus relative to
		// CurrentDir.
		ContextEnabled bool
		// CurrentDir is the caller's directory, used for proximity.
		CurrentDir string
		// MinScore drops matches scoring below the floor. The empty
		// query scores every command at 0 and is not subject to the
		// floor when the floor is positive only for fuzzy scores.
		MinScore int
		// Mode selects case handling; the zero value means smart case.
		Mode scan.CaseMode
	}

	// commandSource adapts a command slice to the fuzzy matcher.
	commandSource []command.Command
)

func (s commandSource) String(i int) string { return s[i].SearchText() }
func (s commandSource) Len() int            { return len(s) }

// matchCase reports whether query matching must respect case: always in
// sensitive mode, and in smart mode once the query contains an uppercase
// rune.
func matchCase(mode scan.CaseMode, query string) bool {
	switch mode {
	case scan.CaseSensitive:
		return true
	case scan.CaseInsensitive:
		return false
	default:
		return strings.ContainsFunc(query, unicode.IsUpper)
	}
}

// isSubsequence reports whether query appears in text as an exact-case
// subsequence.
func isSubsequence(query, text string) bool {
	qr := []rune(query)
	if len(qr) == 0 {
		return true
	}
	i := 0
	for _, r := range text {
		if r == qr[i] {
			i++
			if i == len(qr) {
				return true
			}
		}
	}
	return false
}

// match runs the fuzzy matcher over the snapshot commands, applying the
// case mode as a post-filter. The empty query matches everything with a
// neutral score of 0.
func match(query string, commands []command.Command, mode scan.CaseMode) []Match {
	if query == "" {
		matches := make([]Match, len(commands))
		for i, c := range commands {
			matches[i] = Match{Command: c, Index: i}
		}
		return matches
	}

	caseStrict := matchCase(mode, query)
	var matches []Match
	for _, m := range fuzzy.FindFrom(query, commandSource(commands)) {
		if caseStrict && !isSubsequence(query, commands[m.Index].SearchText()) {
			continue
		}
		matches = append(matches, Match{
			Command: commands[m.Index],
			Score:   m.Score,
			Index:   m.Index,
		})
	}
	return matches
}
