package parts

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partdex/internal/database"
)

func newTestStore(t *testing.T) (*Store, context.Context) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	manager, err := database.NewManager(ctx, filepath.Join(t.TempDir(), "parts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = manager.Close() })

	return NewStore(manager.DB()), ctx
}

func samplePart() *Part {
	return &Part{
		PartNumber:        "RC0402FR-0710KL",
		Manufacturer:      "Yageo",
		MountingType:      "Surface Mount",
		Description:       "RES 10K OHM 1% 1/16W 0402",
		ProductURL:        "https://www.digikey.com/product-detail/RC0402FR-0710KL",
		DatasheetURL:      "https://www.yageo.com/datasheet.pdf",
		QuantityAvailable: 125000,
		UnitPrice:         0.1,
	}
}

func TestGetMissingPart(t *testing.T) {
	t.Parallel()
	store, ctx := newTestStore(t)

	part, err := store.Get(ctx, "DOES-NOT-EXIST")
	require.NoError(t, err)
	assert.Nil(t, part)
}

func TestSaveGetRoundtrip(t *testing.T) {
	t.Parallel()
	store, ctx := newTestStore(t)

	require.NoError(t, store.Save(ctx, samplePart()))

	got, err := store.Get(ctx, "RC0402FR-0710KL")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "Yageo", got.Manufacturer)
	assert.Equal(t, "Surface Mount", got.MountingType)
	assert.Equal(t, 125000, got.QuantityAvailable)
	assert.InDelta(t, 0.1, got.UnitPrice, 1e-9)
	assert.Equal(t, SourceCache, got.Source)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestGetTrimsPartNumber(t *testing.T) {
	t.Parallel()
	store, ctx := newTestStore(t)

	require.NoError(t, store.Save(ctx, samplePart()))

	got, err := store.Get(ctx, "  RC0402FR-0710KL ")
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestSavePreservesCreatedAt(t *testing.T) {
	t.Parallel()
	store, ctx := newTestStore(t)

	part := samplePart()
	require.NoError(t, store.Save(ctx, part))

	first, err := store.Get(ctx, part.PartNumber)
	require.NoError(t, err)

	// Backdate created_at so an upsert that clobbers it would be visible
	_, err = store.db.ExecContext(ctx,
		"UPDATE parts SET created_at = ? WHERE part_number = ?",
		first.CreatedAt.Add(-24*time.Hour).Unix(), part.PartNumber)
	require.NoError(t, err)

	part.Description = "updated description"
	require.NoError(t, store.Save(ctx, part))

	second, err := store.Get(ctx, part.PartNumber)
	require.NoError(t, err)

	assert.Equal(t, "updated description", second.Description)
	assert.Equal(t, first.CreatedAt.Add(-24*time.Hour).Unix(), second.CreatedAt.Unix())
	assert.GreaterOrEqual(t, second.UpdatedAt.Unix(), first.UpdatedAt.Unix())
}

func TestSaveRejectsEmptyPartNumber(t *testing.T) {
	t.Parallel()
	store, ctx := newTestStore(t)

	require.Error(t, store.Save(ctx, &Part{PartNumber: "  "}))
	require.Error(t, store.Save(ctx, nil))
}

func TestSaveFillsDefaults(t *testing.T) {
	t.Parallel()
	store, ctx := newTestStore(t)

	require.NoError(t, store.Save(ctx, &Part{PartNumber: "BARE-1"}))

	got, err := store.Get(ctx, "BARE-1")
	require.NoError(t, err)
	assert.Equal(t, "N/A", got.Manufacturer)
	assert.Equal(t, "N/A", got.MountingType)
	assert.Equal(t, "N/A", got.Description)
}

func TestListAndFailedFilter(t *testing.T) {
	t.Parallel()
	store, ctx := newTestStore(t)

	require.NoError(t, store.Save(ctx, samplePart()))
	require.NoError(t, store.Save(ctx, NotFound("MISSING-1")))

	all, err := store.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "MISSING-1", all[0].PartNumber) // ordered by part number

	failed, err := store.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, "MISSING-1", failed[0].PartNumber)
	assert.True(t, failed[0].Failed())
}

func TestStats(t *testing.T) {
	t.Parallel()
	store, ctx := newTestStore(t)

	require.NoError(t, store.Save(ctx, samplePart()))
	other := samplePart()
	other.PartNumber = "GRM155R71H104KE14D"
	other.Manufacturer = "Murata"
	require.NoError(t, store.Save(ctx, other))
	require.NoError(t, store.Save(ctx, NotFound("MISSING-1")))

	stats, err := store.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalParts)
	assert.Equal(t, 3, stats.Manufacturers) // Yageo, Murata, sentinel
	assert.Equal(t, 1, stats.MountingTypes) // N/A excluded
	assert.Equal(t, 1, stats.FailedLookups)
	assert.Equal(t, 0, stats.CallsToday)
}

func TestCallCounter(t *testing.T) {
	t.Parallel()
	store, ctx := newTestStore(t)

	count, err := store.CallsToday(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	for range 3 {
		require.NoError(t, store.IncrementCalls(ctx))
	}

	count, err = store.CallsToday(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	history, err := store.CallHistory(ctx, 30)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 3, history[0].Count)
	assert.Equal(t, time.Now().Format("2006-01-02"), history[0].Date)
}
