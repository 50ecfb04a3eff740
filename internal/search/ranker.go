// SPDX-License-Identifier: MPL-2.0

package search

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/palrun/palrun/internal/scan"
)

// proximity bonus parameters: a command in the caller's own directory gets
// the full bonus, and each directory segment of distance costs a step.
const (
	proximityMax  = 100
	proximityStep = 20
)

// Search ranks the snapshot's commands against query. Results are ordered
// by score, then proximity bonus, then snapshot position, so equal-quality
// matches keep their discovery order.
func Search(query string, snap *scan.Snapshot, opts Options) []Match {
	matches := match(query, snap.Commands, opts.Mode)

	ranked := matches[:0]
	for _, m := range matches {
		if query != "" && m.Score < opts.MinScore {
			continue
		}
		if opts.ContextEnabled {
			m.Bonus = proximityBonus(snap.Root, opts.CurrentDir, m.Command.Origin)
		}
		ranked = append(ranked, m)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		if ranked[i].Bonus != ranked[j].Bonus {
			return ranked[i].Bonus > ranked[j].Bonus
		}
		return ranked[i].Index < ranked[j].Index
	})
	return ranked
}

// proximityBonus scores how close origin is to current, both taken
// relative to root. The distance is the number of directory segments
// separating them from their common ancestor; outside the scanned root
// the bonus is 0.
func proximityBonus(root, current, origin string) int {
	relCurrent, err := filepath.Rel(root, current)
	if err != nil || strings.HasPrefix(relCurrent, "..") {
		return 0
	}
	relOrigin, err := filepath.Rel(root, origin)
	if err != nil || strings.HasPrefix(relOrigin, "..") {
		return 0
	}

	a := splitSegments(relCurrent)
	b := splitSegments(relOrigin)
	common := 0
	for common < len(a) && common < len(b) && a[common] == b[common] {
		common++
	}
	distance := (len(a) - common) + (len(b) - common)

	bonus := proximityMax - proximityStep*distance
	if bonus < 0 {
		return 0
	}
	return bonus
}

// splitSegments splits a relative path into its directory segments; "."
// has none.
func splitSegments(rel string) []string {
	if rel == "." || rel == "" {
		return nil
	}
	return strings.Split(rel, string(filepath.Separator))
}
