package stats

import (
	"strings"
	"testing"
)

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Activity", "Calories", "Share"}
	rows := [][]string{
		{"Running", "500", "62.5%"},
		{"Cycling", "300", "37.5%"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Activity Calories Share" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "Running       500 62.5%" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "Cycling       300 37.5%" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableTruncatesLongCells(t *testing.T) {
	long := strings.Repeat("x", maxCellWidth+10)
	lines := formatTable([]string{"Event"}, [][]string{{long}}, nil)
	if got := displayWidth(lines[1]); got != maxCellWidth {
		t.Fatalf("expected width %d, got %d (%q)", maxCellWidth, got, lines[1])
	}
	if !strings.HasSuffix(lines[1], "…") {
		t.Fatalf("expected ellipsis, got %q", lines[1])
	}
}

func TestFormatTableWideRunes(t *testing.T) {
	lines := formatTable([]string{"Event", "N"}, [][]string{{"ทำฟัน", "1"}, {"gym", "2"}}, map[int]bool{1: true})
	if displayWidth(lines[1]) != displayWidth(lines[2]) {
		t.Fatalf("rows not aligned: %q / %q", lines[1], lines[2])
	}
}
