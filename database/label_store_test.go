// database/label_store_test.go
package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pimtools/pimload/models"
)

func TestSetLabelOverwrites(t *testing.T) {
	db := newTestDB(t)
	key := time.Date(2024, 4, 11, 9, 8, 11, 0, time.UTC)

	require.NoError(t, SetLabel(db, models.SourcePIM, key, "first"))
	require.NoError(t, SetLabel(db, models.SourcePIM, key, "second"))

	label, found, err := GetLabel(db, models.SourcePIM, key)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "second", label)

	// Re-labeling overwrote; it did not add a row.
	var count int
	require.NoError(t, db.QueryRow("SELECT count(*) FROM labels_pim").Scan(&count))
	require.Equal(t, 1, count)
}

func TestGetLabelMissing(t *testing.T) {
	db := newTestDB(t)

	_, found, err := GetLabel(db, models.SourceDoc, time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.False(t, found)
}

func TestLabelsAreSeparatePerSourceType(t *testing.T) {
	db := newTestDB(t)
	key := time.Date(2024, 4, 11, 9, 8, 11, 0, time.UTC)

	require.NoError(t, SetLabel(db, models.SourcePIM, key, "pim label"))
	require.NoError(t, SetLabel(db, models.SourceHybris, key, "hybris label"))

	label, found, err := GetLabel(db, models.SourceHybris, key)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "hybris label", label)

	label, _, err = GetLabel(db, models.SourcePIM, key)
	require.NoError(t, err)
	require.Equal(t, "pim label", label)
}

func TestSetLabelUnknownSourceType(t *testing.T) {
	db := newTestDB(t)
	err := SetLabel(db, models.SourceType("bogus"), time.Now(), "x")
	require.Error(t, err)
}
