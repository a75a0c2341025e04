// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package table

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/pdiddy/doi-finder/pkg/types"
)

func found(citation, doi string) types.Record {
	return types.NewRecord(citation, types.Match{DOI: doi})
}

// --- CSV reading ---

func TestReadCSVMissingFile(t *testing.T) {
	_, err := ReadCSV(filepath.Join(t.TempDir(), "nope.csv"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "opening table") {
		t.Errorf("error = %q, want substring 'opening table'", err.Error())
	}
}

func TestReadCSVEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	tbl, err := ReadCSV(path)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(tbl.Records) != 0 {
		t.Errorf("len(Records) = %d, want 0", len(tbl.Records))
	}
	if !reflect.DeepEqual(tbl.Columns, []string{"citation", "doi", "doi_url"}) {
		t.Errorf("Columns = %v", tbl.Columns)
	}
}

func TestReadCSVHeaderOrderIndependent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.csv")
	content := "doi,doi_url,citation\n10.1/x,https://doi.org/10.1/x,Some citation\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	tbl, err := ReadCSV(path)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(tbl.Records) != 1 {
		t.Fatalf("len(Records) = %d, want 1", len(tbl.Records))
	}
	r := tbl.Records[0]
	if r.Citation != "Some citation" || r.DOI != "10.1/x" || r.DOIURL != "https://doi.org/10.1/x" {
		t.Errorf("record = %+v", r)
	}
}

func TestReadCSVBOMAndCaseInHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.csv")
	content := "\uFEFFCitation,DOI,doi_url\nA,10.1/a,https://doi.org/10.1/a\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	tbl, err := ReadCSV(path)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if tbl.Records[0].Citation != "A" {
		t.Errorf("Citation = %q, want %q", tbl.Records[0].Citation, "A")
	}
	if tbl.Records[0].DOI != "10.1/a" {
		t.Errorf("DOI = %q, want %q", tbl.Records[0].DOI, "10.1/a")
	}
}

func TestReadCSVPreservesExtraColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.csv")
	content := "citation,doi,doi_url,notes,rating\n" +
		"First,10.1/a,https://doi.org/10.1/a,seminal,5\n" +
		"Second,10.1/b,https://doi.org/10.1/b,,3\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	tbl, err := ReadCSV(path)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}

	wantCols := []string{"citation", "doi", "doi_url", "notes", "rating"}
	if !reflect.DeepEqual(tbl.Columns, wantCols) {
		t.Errorf("Columns = %v, want %v", tbl.Columns, wantCols)
	}
	if got := tbl.Records[0].Extra["notes"]; got != "seminal" {
		t.Errorf("Extra[notes] = %q, want %q", got, "seminal")
	}
	if got := tbl.Records[1].Extra["rating"]; got != "3" {
		t.Errorf("Extra[rating] = %q, want %q", got, "3")
	}
}

// --- Round trip ---

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.csv")

	tbl := New()
	tbl.Append([]types.Record{
		found("Citation, with commas \"and quotes\"", "10.1103/PhysRevE.76.021306"),
		types.NotFoundRecord("Unresolvable citation"),
	})
	if err := tbl.WriteCSV(path); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	got, err := ReadCSV(path)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if !reflect.DeepEqual(got.Records, tbl.Records) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got.Records, tbl.Records)
	}
}

func TestMergeRoundTripKeepsExtras(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "t.csv")
	content := "citation,doi,doi_url,notes\nFirst,10.1/a,https://doi.org/10.1/a,keep me\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	tbl, err := ReadCSV(path)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	tbl.Append([]types.Record{found("Second", "10.1/b")})
	if err := tbl.WriteCSV(path); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "citation,doi,doi_url,notes\n" +
		"First,10.1/a,https://doi.org/10.1/a,keep me\n" +
		"Second,10.1/b,https://doi.org/10.1/b,\n"
	if string(data) != want {
		t.Errorf("file content:\n%s\nwant:\n%s", data, want)
	}
}

// --- Merge semantics ---

func TestAppendSkipsExistingDOI(t *testing.T) {
	tbl := New()
	tbl.Append([]types.Record{found("Original", "10.1103/PhysRevE.76.021306")})

	stats := tbl.Append([]types.Record{
		found("Same paper, cited differently", "10.1103/PhysRevE.76.021306"),
		found("New paper", "10.1038/nature12373"),
	})

	if stats.Added != 1 || stats.Skipped != 1 {
		t.Errorf("stats = %+v, want Added 1 Skipped 1", stats)
	}
	if len(stats.SkippedCitations) != 1 || stats.SkippedCitations[0] != "Same paper, cited differently" {
		t.Errorf("SkippedCitations = %v", stats.SkippedCitations)
	}
	if len(tbl.Records) != 2 {
		t.Errorf("len(Records) = %d, want 2", len(tbl.Records))
	}
}

func TestAppendDOICaseInsensitive(t *testing.T) {
	tbl := New()
	tbl.Append([]types.Record{found("Upper", "10.1103/PhysRevE.76.021306")})

	stats := tbl.Append([]types.Record{found("Lower", "10.1103/physreve.76.021306")})
	if stats.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", stats.Skipped)
	}
	// The original casing stays in the table.
	if tbl.Records[0].DOI != "10.1103/PhysRevE.76.021306" {
		t.Errorf("DOI = %q, casing changed", tbl.Records[0].DOI)
	}
}

func TestAppendNotFoundNeverSkipped(t *testing.T) {
	tbl := New()
	tbl.Append([]types.Record{types.NotFoundRecord("First miss")})

	stats := tbl.Append([]types.Record{
		types.NotFoundRecord("Second miss"),
		types.NotFoundRecord("Third miss"),
	})
	if stats.Added != 2 || stats.Skipped != 0 {
		t.Errorf("stats = %+v, want Added 2 Skipped 0", stats)
	}
	if len(tbl.Records) != 3 {
		t.Errorf("len(Records) = %d, want 3", len(tbl.Records))
	}
}

func TestAppendDuplicateWithinBatch(t *testing.T) {
	tbl := New()
	stats := tbl.Append([]types.Record{
		found("First mention", "10.1/dup"),
		found("Second mention", "10.1/dup"),
	})
	if stats.Added != 1 || stats.Skipped != 1 {
		t.Errorf("stats = %+v, want Added 1 Skipped 1", stats)
	}
}

func TestAppendNeverTouchesExistingRows(t *testing.T) {
	tbl := New()
	tbl.Append([]types.Record{
		found("Keep first", "10.1/a"),
		types.NotFoundRecord("Keep miss"),
	})
	before := append([]types.Record(nil), tbl.Records...)

	tbl.Append([]types.Record{found("Appended", "10.1/b")})

	if !reflect.DeepEqual(tbl.Records[:2], before) {
		t.Errorf("existing rows changed: %+v", tbl.Records[:2])
	}
	if tbl.Records[2].Citation != "Appended" {
		t.Errorf("new row not at end: %+v", tbl.Records[2])
	}
}

// --- De-duplication ---

func TestDedupeKeepsFirstOccurrence(t *testing.T) {
	tbl := New()
	tbl.Records = []types.Record{
		found("A first", "10.1/a"),
		found("B", "10.1/b"),
		found("A second", "10.1/a"),
		found("C", "10.1/c"),
		found("A third", "10.1/A"), // case variant of the same DOI
	}

	removed := tbl.Dedupe()
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}

	var citations []string
	for _, r := range tbl.Records {
		citations = append(citations, r.Citation)
	}
	want := []string{"A first", "B", "C"}
	if !reflect.DeepEqual(citations, want) {
		t.Errorf("citations = %v, want %v", citations, want)
	}
}

func TestDedupeKeepsNotFoundRows(t *testing.T) {
	tbl := New()
	tbl.Records = []types.Record{
		types.NotFoundRecord("miss one"),
		found("A", "10.1/a"),
		types.NotFoundRecord("miss two"),
	}

	if removed := tbl.Dedupe(); removed != 0 {
		t.Errorf("removed = %d, want 0", removed)
	}
	if len(tbl.Records) != 3 {
		t.Errorf("len(Records) = %d, want 3", len(tbl.Records))
	}
}

func TestDedupeIdempotent(t *testing.T) {
	tbl := New()
	tbl.Records = []types.Record{
		found("A", "10.1/a"),
		found("A dup", "10.1/a"),
		found("B", "10.1/b"),
	}

	if removed := tbl.Dedupe(); removed != 1 {
		t.Fatalf("first pass removed = %d, want 1", removed)
	}
	after := append([]types.Record(nil), tbl.Records...)

	if removed := tbl.Dedupe(); removed != 0 {
		t.Errorf("second pass removed = %d, want 0", removed)
	}
	if !reflect.DeepEqual(tbl.Records, after) {
		t.Errorf("second pass changed records")
	}
}

// --- Paths ---

func TestXLSXPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"dois.csv", "dois.xlsx"},
		{"out/table.csv", "out/table.xlsx"},
		{"archive.2024.csv", "archive.2024.xlsx"},
		{"noext", "noext.xlsx"},
	}
	for _, tt := range tests {
		if got := XLSXPath(tt.in); got != tt.want {
			t.Errorf("XLSXPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
