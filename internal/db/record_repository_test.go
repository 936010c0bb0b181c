package db_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/woomy/internal/db"
	"github.com/udisondev/woomy/internal/testutil"
)

func TestRecordRepository_SaveAndGet(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	repo := db.NewRecordRepository(pool)
	ctx := context.Background()

	rec := db.Record{
		Source:   "amiibo.bin",
		Mode:     db.ModeVerify,
		Prefix:   []byte{0, 1, 2, 3, 4, 5, 6, 7},
		Signed:   testutil.SeqBytes(200, 1, 0),
		Plain:    testutil.SeqBytes(184, 1, 0),
		Verified: true,
	}

	id, err := repo.SaveRecord(ctx, rec)
	require.NoError(t, err)
	assert.Positive(t, id)

	got, err := repo.GetRecord(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, rec.Source, got.Source)
	assert.Equal(t, rec.Mode, got.Mode)
	assert.Equal(t, rec.Prefix, got.Prefix)
	assert.Equal(t, rec.Signed, got.Signed)
	assert.Equal(t, rec.Plain, got.Plain)
	assert.True(t, got.Verified)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestRecordRepository_GetMissing(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	repo := db.NewRecordRepository(pool)

	got, err := repo.GetRecord(context.Background(), 424242)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRecordRepository_ListBySource(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	repo := db.NewRecordRepository(pool)
	ctx := context.Background()

	for _, mode := range []string{db.ModeSign, db.ModeVerify} {
		_, err := repo.SaveRecord(ctx, db.Record{
			Source: "a.bin", Mode: mode,
			Prefix: []byte{}, Signed: []byte{1}, Plain: []byte{2},
			Verified: mode == db.ModeSign,
		})
		require.NoError(t, err)
	}
	_, err := repo.SaveRecord(ctx, db.Record{
		Source: "b.bin", Mode: db.ModeSign,
		Prefix: []byte{}, Signed: []byte{1}, Plain: []byte{2}, Verified: true,
	})
	require.NoError(t, err)

	list, err := repo.ListBySource(ctx, "a.bin")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, db.ModeSign, list[0].Mode)
	assert.Equal(t, db.ModeVerify, list[1].Mode)
	assert.False(t, list[1].Verified)

	none, err := repo.ListBySource(ctx, "c.bin")
	require.NoError(t, err)
	assert.Empty(t, none)
}
