package tui

import "testing"

func TestPageLayoutUpdate(t *testing.T) {
	cases := []struct {
		name       string
		width      int
		height     int
		pageWidth  int
		pageHeight int
		bodyRows   int
	}{
		{name: "default", width: 80, height: 24, pageWidth: 73, pageHeight: 20, bodyRows: 16},
		{name: "wide", width: 200, height: 50, pageWidth: maxPageWidth, pageHeight: 46, bodyRows: 42},
		{name: "tiny", width: 20, height: 5, pageWidth: minPageWidth, pageHeight: minPageHeight, bodyRows: 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			layout := newPageLayout()
			layout.Update(tc.width, tc.height)
			if layout.pageWidth != tc.pageWidth {
				t.Fatalf("page width mismatch: got %d want %d", layout.pageWidth, tc.pageWidth)
			}
			if layout.pageHeight != tc.pageHeight {
				t.Fatalf("page height mismatch: got %d want %d", layout.pageHeight, tc.pageHeight)
			}
			if layout.bodyRows() != tc.bodyRows {
				t.Fatalf("body rows mismatch: got %d want %d", layout.bodyRows(), tc.bodyRows)
			}
		})
	}
}

func TestWindow(t *testing.T) {
	cases := []struct {
		name      string
		total     int
		rows      int
		offset    int
		start     int
		end       int
		indicator bool
	}{
		{name: "fits", total: 5, rows: 10, offset: 3, start: 0, end: 5},
		{name: "overflow top", total: 20, rows: 10, offset: 0, start: 0, end: 9, indicator: true},
		{name: "overflow middle", total: 20, rows: 10, offset: 4, start: 4, end: 13, indicator: true},
		{name: "bottom", total: 20, rows: 10, offset: 11, start: 11, end: 20},
		{name: "past bottom", total: 20, rows: 10, offset: 50, start: 11, end: 20},
		{name: "negative", total: 20, rows: 10, offset: -3, start: 0, end: 9, indicator: true},
		{name: "no rows", total: 20, rows: 0, offset: 0, start: 0, end: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			start, end, indicator := window(tc.total, tc.rows, tc.offset)
			if start != tc.start || end != tc.end || indicator != tc.indicator {
				t.Fatalf("window(%d, %d, %d) = %d, %d, %v; want %d, %d, %v",
					tc.total, tc.rows, tc.offset, start, end, indicator, tc.start, tc.end, tc.indicator)
			}
		})
	}
}

func TestHitTest(t *testing.T) {
	layout := newPageLayout()
	top := layout.boxY()
	left := layout.boxX()
	cases := []struct {
		name   string
		x, y   int
		region region
		relX   int
		row    int
	}{
		{name: "header", x: 5, y: 0, region: regionNone, row: -1},
		{name: "category bar", x: 10, y: 1, region: regionCategoryBar, relX: 10, row: -1},
		{name: "stack", x: 2, y: top + 4, region: regionStack, relX: 2, row: -1},
		{name: "page border", x: left + 10, y: top, region: regionPage, relX: 10, row: -1},
		{name: "page title", x: left + 10, y: top + 1, region: regionPage, relX: 10, row: -1},
		{name: "first body row", x: left + 10, y: top + 3, region: regionPage, relX: 10, row: 0},
		{name: "peek", x: left + layout.pageWidth + 1, y: top + 3, region: regionPeek, relX: 1, row: -1},
		{name: "right of peek", x: left + layout.pageWidth + peekWidth, y: top + 3, region: regionNone, row: -1},
		{name: "below page", x: left + 10, y: top + layout.pageHeight, region: regionNone, row: -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := layout.hitTest(tc.x, tc.y)
			if h.region != tc.region {
				t.Fatalf("region = %d, want %d", h.region, tc.region)
			}
			if tc.region != regionNone && h.x != tc.relX {
				t.Fatalf("x = %d, want %d", h.x, tc.relX)
			}
			if h.row != tc.row {
				t.Fatalf("row = %d, want %d", h.row, tc.row)
			}
		})
	}
}

func TestSpanAt(t *testing.T) {
	spans := []categorySpan{{label: "Mains", start: 0, end: 7}, {label: "Drinks", start: 7, end: 15}}
	if label, ok := spanAt(spans, 7); !ok || label != "Drinks" {
		t.Fatalf("spanAt(7) = %q, %v", label, ok)
	}
	if _, ok := spanAt(spans, 15); ok {
		t.Fatalf("expected no span past the last label")
	}
}
