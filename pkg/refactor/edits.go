package refactor

import "sort"

// Edit replaces the byte span [Start, End) of the original document with
// Text. An empty Text deletes the span.
type Edit struct {
	Start int
	End   int
	Text  string
}

// EditList accumulates non-overlapping span edits against a single document.
// It doubles as the liveness record for rewritten nodes: once a span has
// been edited, anything inside it is considered removed from the tree and
// later passes must skip it.
type EditList struct {
	edits []Edit
}

// Replace records a substitution of [start, end) with text.
func (l *EditList) Replace(start, end int, text string) {
	l.edits = append(l.edits, Edit{Start: start, End: end, Text: text})
}

// Delete records a removal of [start, end).
func (l *EditList) Delete(start, end int) {
	l.Replace(start, end, "")
}

// Removed reports whether [start, end) overlaps a span that has already
// been edited, meaning the node it came from no longer exists in the
// rewritten output.
func (l *EditList) Removed(start, end int) bool {
	for _, e := range l.edits {
		if start < e.End && end > e.Start {
			return true
		}
	}
	return false
}

// Len returns the number of recorded edits.
func (l *EditList) Len() int {
	return len(l.edits)
}

// ApplyTo renders the edits that fall inside the slice text[0:len(text)],
// where text is the document slice starting at byte offset base. Edits are
// applied back-to-front so earlier spans keep their offsets.
func (l *EditList) ApplyTo(text string, base int) string {
	edits := make([]Edit, 0, len(l.edits))
	for _, e := range l.edits {
		if e.Start >= base && e.End <= base+len(text) {
			edits = append(edits, e)
		}
	}
	sort.Slice(edits, func(i, j int) bool { return edits[i].Start > edits[j].Start })

	out := text
	for _, e := range edits {
		out = out[:e.Start-base] + e.Text + out[e.End-base:]
	}
	return out
}
