package retraction

import (
	"strings"
	"testing"
)

func TestParseRecords_InvalidBytes(t *testing.T) {
	content := "OriginalPaperDOI,RetractionNature\n10.1000/abc,Retr\xffaction\n"

	rows, err := ParseRecords(strings.NewReader(content), ColumnOriginalDOI)
	if err != nil {
		t.Fatalf("ParseRecords() error = %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("ParseRecords() returned %d rows, want 1", len(rows))
	}
	if got := rows[0].Record.Nature(); got != "Retr\ufffdaction" {
		t.Errorf("Nature() = %q, want replacement character", got)
	}
}

func TestParseRecords_BOMAndShortRows(t *testing.T) {
	content := "\ufeffOriginalPaperDOI,RetractionNature,RetractionDate\n10.1000/abc,Retraction\nonly-one-field\n"

	rows, err := ParseRecords(strings.NewReader(content), ColumnOriginalDOI)
	if err != nil {
		t.Fatalf("ParseRecords() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("ParseRecords() returned %d rows, want 2", len(rows))
	}
	if rows[0].DOI != "10.1000/abc" {
		t.Errorf("rows[0].DOI = %q, want BOM stripped from header", rows[0].DOI)
	}
	if got := rows[0].Record.Date(); got != "" {
		t.Errorf("Date() = %q, want empty for missing cell", got)
	}
}

func TestParseRecords_MissingKeyColumn(t *testing.T) {
	content := "Title,RetractionNature\nSomething,Retraction\n"

	rows, err := ParseRecords(strings.NewReader(content), ColumnOriginalDOI)
	if err != nil {
		t.Fatalf("ParseRecords() error = %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("ParseRecords() returned %d rows, want 0 for rows without a DOI", len(rows))
	}
}

func TestParseRecords_Empty(t *testing.T) {
	rows, err := ParseRecords(strings.NewReader(""), ColumnOriginalDOI)
	if err != nil {
		t.Fatalf("ParseRecords() error = %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("ParseRecords() returned %d rows, want 0", len(rows))
	}
}
