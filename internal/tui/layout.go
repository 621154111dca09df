package tui

type pageLayout struct {
	windowWidth  int
	windowHeight int
	pageWidth    int
	pageHeight   int
}

func newPageLayout() pageLayout {
	var l pageLayout
	l.Update(80, 24)
	return l
}

func (l *pageLayout) Update(width, height int) {
	l.windowWidth = width
	l.windowHeight = height
	pageWidth := width - stackWidth - peekWidth
	if pageWidth < minPageWidth {
		pageWidth = minPageWidth
	}
	if pageWidth > maxPageWidth {
		pageWidth = maxPageWidth
	}
	l.pageWidth = pageWidth
	pageHeight := height - headerHeight - footerHeight
	if pageHeight < minPageHeight {
		pageHeight = minPageHeight
	}
	l.pageHeight = pageHeight
}

func (l pageLayout) boxX() int { return stackWidth }
func (l pageLayout) boxY() int { return headerHeight }

// contentWidth excludes the border and one column of padding per side.
func (l pageLayout) contentWidth() int { return l.pageWidth - 4 }

// bodyRows excludes the border, the page title and the gap below it.
func (l pageLayout) bodyRows() int { return l.pageHeight - 4 }

type region int

const (
	regionNone region = iota
	regionCategoryBar
	regionStack
	regionPage
	regionPeek
)

// hit describes where a pointer press landed. For the page, x is relative
// to the page's left edge and row is the body row (-1 on the title or
// border).
type hit struct {
	region region
	x      int
	width  int
	row    int
}

func (l pageLayout) hitTest(x, y int) hit {
	if y == 1 {
		return hit{region: regionCategoryBar, x: x, row: -1}
	}
	top := l.boxY()
	if y < top || y >= top+l.pageHeight {
		return hit{region: regionNone, row: -1}
	}
	left := l.boxX()
	switch {
	case x < left:
		return hit{region: regionStack, x: x, width: stackWidth, row: -1}
	case x < left+l.pageWidth:
		row := y - top - 3
		if row < 0 || row >= l.bodyRows() {
			row = -1
		}
		return hit{region: regionPage, x: x - left, width: l.pageWidth, row: row}
	case x < left+l.pageWidth+peekWidth:
		return hit{region: regionPeek, x: x - left - l.pageWidth, width: peekWidth, row: -1}
	}
	return hit{region: regionNone, row: -1}
}

// window picks the slice of body lines to draw. When the lines overflow,
// the last row is kept for the scroll indicator, which shows until the
// list is scrolled to the bottom.
func window(total, rows, offset int) (start, end int, indicator bool) {
	if rows < 1 {
		return 0, 0, false
	}
	if total <= rows {
		return 0, total, false
	}
	visible := rows - 1
	maxOffset := total - visible
	offset = clampScroll(offset, total, rows)
	return offset, offset + visible, offset < maxOffset
}

func clampScroll(offset, total, rows int) int {
	if total <= rows || rows < 1 {
		return 0
	}
	maxOffset := total - (rows - 1)
	if offset > maxOffset {
		offset = maxOffset
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}

// categorySpan is the clickable extent of one label on the category bar.
type categorySpan struct {
	label string
	start int
	end   int
}

func spanAt(spans []categorySpan, x int) (string, bool) {
	for _, s := range spans {
		if x >= s.start && x < s.end {
			return s.label, true
		}
	}
	return "", false
}
