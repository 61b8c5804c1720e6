package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/hvlab/settlement/internal/ledger"
)

func exportFixture(t *testing.T) []*ledger.LineItem {
	t.Helper()
	a := &ledger.LineItem{
		ID: "a", User: "kim", Date: "2026-02-01", Process: "tiling", Name: "tiles",
		MaterialAmount: 100000, LaborAmount: 50000, VATIncluded: true,
		VATAmount: 15000, TotalAmount: 165000,
	}
	require.NoError(t, a.SetMemo(&ledger.Memo{HTML: "<p>north wall</p><p>second batch</p>"}))
	b := &ledger.LineItem{
		ID: "b", User: "lee", Date: "2026-02-03", Process: "painting", Name: "primer",
		MaterialAmount: 30000, TotalAmount: 30000,
	}
	return []*ledger.LineItem{a, b}
}

func TestToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, ToCSV(path, exportFixture(t)))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4) // header + 2 items + totals

	require.Equal(t, header, rows[0])
	require.Equal(t, []string{"kim", "2026-02-01", "tiling", "tiles",
		"100000", "50000", "15000", "165000", "north wall second batch"}, rows[1])
	require.Equal(t, "", rows[2][8])
	require.Equal(t, []string{"", "", "", "Total", "130000", "50000", "15000", "195000", ""}, rows[3])
}

func TestToXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, ToXLSX(path, "Riverside 101", exportFixture(t)))

	wb, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows("Riverside 101")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	require.Equal(t, "Author", rows[0][0])
	require.Equal(t, "tiles", rows[1][3])
	require.Equal(t, "165000", rows[1][7])
	require.Equal(t, "Total", rows[3][3])
	require.Equal(t, "195000", rows[3][7])
}

func TestSheetName(t *testing.T) {
	require.Equal(t, "Riverside 101", SheetName("Riverside 101"))
	require.Equal(t, "a-b-c", SheetName(`a/b\c`))
	require.Equal(t, "Sheet1", SheetName(""))
	require.Len(t, []rune(SheetName("손홍민 아파트 리모델링 공사 정산 내역서 전체")), 31)
}

func TestMemoText(t *testing.T) {
	it := &ledger.LineItem{}
	require.Equal(t, "", MemoText(it))

	require.NoError(t, it.SetMemo(&ledger.Memo{
		HTML:   `<div>before<img src="x"/>after</div><p>line&nbsp;two</p>`,
		Images: map[string]string{"x": "aWdub3JlZA=="},
	}))
	got := MemoText(it)
	require.Contains(t, got, "before")
	require.Contains(t, got, "after")
	require.Contains(t, got, "line")
	require.NotContains(t, got, "img")
	require.NotContains(t, got, "aWdub3JlZA")

	it.Memo = "{not json"
	require.Equal(t, "", MemoText(it))
}
