package persistence

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hvlab/settlement/internal/ledger"
	"github.com/hvlab/settlement/internal/logging"
)

func testSnapshot(name string) map[string][]*ledger.LineItem {
	return map[string][]*ledger.LineItem{
		"Riverside 101": {
			{ID: "1", User: "kim", Date: "2025-03-01", Name: name,
				MaterialAmount: 90_909, LaborAmount: 45_455, VATIncluded: true,
				VATAmount: 13_636, TotalAmount: 150_000},
		},
	}
}

func newTestAdapter(t *testing.T, opts ...Option) (*Adapter, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "settlement_data.json")
	a := New(path, filepath.Join(dir, "backups"), logging.NewDefault(), opts...)
	return a, path
}

func TestLoadMissingFileYieldsEmptyStore(t *testing.T) {
	a, _ := newTestAdapter(t)
	projects := a.Load(context.Background())
	require.NotNil(t, projects)
	require.Empty(t, projects)
}

func TestLoadCorruptFileYieldsEmptyStore(t *testing.T) {
	a, path := newTestAdapter(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	// three read attempts all succeed but decoding fails; startup degrades
	projects := a.Load(context.Background())
	require.Empty(t, projects)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	a, _ := newTestAdapter(t, WithDebounce(time.Millisecond))
	a.Save(testSnapshot("tiles"))

	require.Eventually(t, func() bool { return !a.WriteInFlight() }, time.Second, 5*time.Millisecond)

	got := a.Load(context.Background())
	require.Len(t, got["Riverside 101"], 1)
	it := got["Riverside 101"][0]
	require.Equal(t, "tiles", it.Name)
	require.Equal(t, "2025-03-01", it.Date)
	require.Equal(t, int64(150_000), it.TotalAmount)
	require.True(t, it.VATIncluded)
}

func TestDebounceCollapsesWrites(t *testing.T) {
	a, path := newTestAdapter(t, WithDebounce(50*time.Millisecond))

	// 10 rapid saves inside the window must produce exactly one write
	for i := 0; i < 10; i++ {
		a.Save(testSnapshot("v" + string(rune('0'+i))))
	}
	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err), "no write may happen inside the debounce window")

	require.Eventually(t, func() bool {
		_, err := os.Stat(path)
		return err == nil
	}, time.Second, 5*time.Millisecond)

	got := a.Load(context.Background())
	// the single write carries the last snapshot
	require.Equal(t, "v9", got["Riverside 101"][0].Name)
}

func TestFlushWritesBackupAndPrunes(t *testing.T) {
	a, path := newTestAdapter(t)

	require.NoError(t, a.Flush(context.Background(), testSnapshot("final")))

	_, err := os.Stat(path)
	require.NoError(t, err)

	backups, err := os.ReadDir(a.backupDir)
	require.NoError(t, err)
	require.Len(t, backups, 1)

	// age the backup past retention; the next flush must prune it
	old := filepath.Join(a.backupDir, backups[0].Name())
	stale := time.Now().Add(-8 * 24 * time.Hour)
	require.NoError(t, os.Chtimes(old, stale, stale))

	// distinct timestamp for the new backup name
	nowFn = func() time.Time { return time.Now().Add(time.Second) }
	defer func() { nowFn = time.Now }()

	require.NoError(t, a.Flush(context.Background(), testSnapshot("final2")))

	backups, err = os.ReadDir(a.backupDir)
	require.NoError(t, err)
	require.Len(t, backups, 1)
	require.NotEqual(t, filepath.Base(old), backups[0].Name())
}

type recordingArchiver struct {
	names []string
}

func (r *recordingArchiver) Archive(_ context.Context, name string, _ []byte) error {
	r.names = append(r.names, name)
	return nil
}

func TestFlushHandsBackupToArchiver(t *testing.T) {
	rec := &recordingArchiver{}
	a, _ := newTestAdapter(t, WithArchiver(rec))

	require.NoError(t, a.Flush(context.Background(), testSnapshot("x")))
	require.Len(t, rec.names, 1)
	require.Contains(t, rec.names[0], backupPrefix)
}

func TestWriteInFlight(t *testing.T) {
	a, _ := newTestAdapter(t, WithDebounce(50*time.Millisecond))
	require.False(t, a.WriteInFlight())

	a.Save(testSnapshot("x"))
	require.True(t, a.WriteInFlight())

	require.Eventually(t, func() bool { return !a.WriteInFlight() }, time.Second, 5*time.Millisecond)
}

func TestWriteTo(t *testing.T) {
	a, _ := newTestAdapter(t)
	target := filepath.Join(t.TempDir(), "manual.json")
	require.NoError(t, a.WriteTo(target, testSnapshot("manual")))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	projects, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, "manual", projects["Riverside 101"][0].Name)
}

func TestEncodeIsCanonical(t *testing.T) {
	a := map[string][]*ledger.LineItem{"b": {}, "a": {}, "c": {}}
	x, err := Encode(a)
	require.NoError(t, err)
	y, err := Encode(map[string][]*ledger.LineItem{"c": {}, "a": {}, "b": {}})
	require.NoError(t, err)
	require.Equal(t, string(x), string(y))
}
