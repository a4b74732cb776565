package model

const (
	// RowsPerEntry is the number of screen lines one entry occupies.
	RowsPerEntry = 2
	headerRows   = 2
	footerRows   = 1
)

// VisibleEntries returns how many entries fit in a terminal of the given
// height. Zero means the height is unknown and everything is visible.
func VisibleEntries(height int) int {
	if height <= 0 {
		return 0
	}
	n := (height - headerRows - footerRows) / RowsPerEntry
	if n < 1 {
		n = 1
	}
	return n
}

// ClampCursor keeps cursor inside [0, total).
func ClampCursor(cursor, total int) int {
	if total <= 0 || cursor < 0 {
		return 0
	}
	if cursor >= total {
		return total - 1
	}
	return cursor
}

// EnsureVisible returns the scroll offset that keeps cursor on screen,
// moving as little as possible from offset.
func EnsureVisible(cursor, offset, total, maxVisible int) int {
	if total == 0 || maxVisible <= 0 {
		return 0
	}
	maxOffset := total - maxVisible
	if maxOffset < 0 {
		maxOffset = 0
	}
	if offset > maxOffset {
		offset = maxOffset
	}
	if offset < 0 {
		offset = 0
	}
	if cursor < offset {
		offset = cursor
	}
	if upper := offset + maxVisible - 1; cursor > upper {
		offset = cursor - maxVisible + 1
		if offset > maxOffset {
			offset = maxOffset
		}
	}
	return offset
}
