package server

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// keyInit requires a "key" string in the app state.
type keyInit struct{}

func (keyInit) FromGenesis(opts escrowd.Options, db escrowd.KVStore) error {
	var key string
	if err := opts.ReadOptions("key", &key); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	if key == "" {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	return db.Set([]byte(key), []byte("set"))
}

func TestValidateGenesis(t *testing.T) {
	dir, err := ioutil.TempDir("", "escrowd-validate")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, ioutil.WriteFile(path, []byte(content), 0600))
		return path
	}
	good := write("good.json", `{"app_state": {"key": "a"}}`)
	empty := write("empty.json", `{"app_state": {}}`)
	broken := write("broken.json", `{"app_state": `)

	assert.NoError(t, ValidateGenesis(keyInit{}, []string{good}))

	err = ValidateGenesis(keyInit{}, []string{good, empty})
	assert.True(t, errors.ErrEmpty.Is(err))

	err = ValidateGenesis(keyInit{}, []string{broken})
	assert.True(t, errors.ErrInvalidInput.Is(err))

	err = ValidateGenesis(keyInit{}, []string{filepath.Join(dir, "missing.json")})
	assert.Error(t, err)

	cmd := ValidateCmd(keyInit{})
	assert.NoError(t, cmd.RunE(cmd, []string{good}))
}
