package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radioscan/p25rx/internal/bits"
	"github.com/radioscan/p25rx/internal/p25"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testMessage(t *testing.T, nac, duidCode int) p25.Message {
	t.Helper()
	buf := bits.NewBuffer(p25.NIDLength)
	for i := 0; i < 12; i++ {
		if nac>>uint(11-i)&1 == 1 {
			buf.Set(i)
		}
	}
	for i := 0; i < 4; i++ {
		if duidCode>>uint(3-i)&1 == 1 {
			buf.Set(12 + i)
		}
	}
	return p25.NewRawMessage(buf, p25.DUIDFromValue(duidCode))
}

func TestMessageRepositorySaveAndRecent(t *testing.T) {
	store := newTestStore(t)
	repo := store.Messages

	require.NoError(t, repo.Save(testMessage(t, 0x293, p25.CodeTDU)))
	require.NoError(t, repo.Save(testMessage(t, 0x293, p25.CodeHDU)))

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	records, err := repo.Recent(10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 0x293, records[0].NAC)
	assert.Equal(t, p25.NIDLength, records[0].BitLength)
}

func TestMessageRepositoryCountByDUID(t *testing.T) {
	store := newTestStore(t)
	repo := store.Messages

	require.NoError(t, repo.Save(testMessage(t, 1, p25.CodeTDU)))
	require.NoError(t, repo.Save(testMessage(t, 2, p25.CodeTDU)))
	require.NoError(t, repo.Save(testMessage(t, 3, p25.CodeHDU)))

	count, err := repo.CountByDUID("TDU")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestMessageRepositoryPrune(t *testing.T) {
	store := newTestStore(t)
	repo := store.Messages

	require.NoError(t, repo.Save(testMessage(t, 1, p25.CodeTDU)))

	pruned, err := repo.PruneBefore(time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), pruned)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestSystemRepository(t *testing.T) {
	store := newTestStore(t)
	repo := store.Systems

	// Unknown NAC resolves to nil without error.
	system, err := repo.GetByNAC(0x293)
	require.NoError(t, err)
	assert.Nil(t, system)

	require.NoError(t, repo.Upsert(&System{NAC: 0x293, Label: "County P25", Site: "North"}))

	system, err = repo.GetByNAC(0x293)
	require.NoError(t, err)
	require.NotNil(t, system)
	assert.Equal(t, "County P25", system.Label)

	// Invalid NAC is rejected.
	assert.Error(t, repo.Upsert(&System{NAC: 0}))
}
