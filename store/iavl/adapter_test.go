package iavl

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/iov-one/supersig/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSavepoints(t *testing.T) {
	store.NewSuite(func() (store.CacheableKVStore, func()) {
		return NewMemCommitStore(), func() {}
	}).Run(t)
}

func TestCommitAndReload(t *testing.T) {
	tmpDir, err := ioutil.TempDir("", "iavl-adapter-")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	db, err := NewCommitStore(tmpDir, "state")
	require.NoError(t, err)
	require.NoError(t, db.LoadLatestVersion())
	assert.Equal(t, int64(0), db.LatestVersion().Version)

	cache := db.CacheWrap()
	require.NoError(t, cache.Set([]byte("group"), []byte("one")))
	require.NoError(t, cache.Set([]byte("payload"), []byte("two")))
	require.NoError(t, cache.Write())

	first, err := db.Commit()
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.Version)
	assert.NotEmpty(t, first.Hash)

	require.NoError(t, db.Delete([]byte("payload")))
	second, err := db.Commit()
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.Version)
	assert.NotEqual(t, first.Hash, second.Hash)

	// uncommitted changes are lost on reload
	require.NoError(t, db.Set([]byte("lost"), []byte("x")))
	db.Close()

	reopened, err := NewCommitStore(tmpDir, "state")
	require.NoError(t, err)
	defer reopened.Close()
	require.NoError(t, reopened.LoadLatestVersion())
	assert.Equal(t, second, reopened.LatestVersion())

	val, err := reopened.Get([]byte("group"))
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), val)

	has, err := reopened.Has([]byte("payload"))
	require.NoError(t, err)
	assert.False(t, has)

	has, err = reopened.Has([]byte("lost"))
	require.NoError(t, err)
	assert.False(t, has)
}

func TestCommitIsDeterministic(t *testing.T) {
	write := func() store.CommitID {
		db := NewMemCommitStore()
		require.NoError(t, db.Set([]byte("a"), []byte("1")))
		require.NoError(t, db.Set([]byte("b"), []byte("2")))
		id, err := db.Commit()
		require.NoError(t, err)
		return id
	}
	assert.Equal(t, write(), write())
}
