package escrowdtest

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/store/iavl"
	"github.com/stretchr/testify/require"
)

// CommitKVStore opens an iavl store backed by leveldb in a temporary
// directory, the same engine a node runs on. Call cleanup to remove the
// directory.
func CommitKVStore(t testing.TB) (db escrowd.CommitKVStore, cleanup func()) {
	t.Helper()
	dir, err := ioutil.TempDir("", "escrowdtest")
	require.NoError(t, err)
	cleanup = func() { _ = os.RemoveAll(dir) }

	db, err = iavl.NewCommitStore(dir, "state")
	if err != nil {
		cleanup()
		require.NoError(t, err)
	}
	return db, cleanup
}
