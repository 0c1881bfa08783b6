package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandLayout(t *testing.T) {
	root := newRootCmd()

	names := []string{}
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"run", "migrate"}, names)

	flag := root.PersistentFlags().Lookup("config")
	require.NotNil(t, flag)
	assert.Equal(t, "./config.yaml", flag.DefValue)
}

func TestMigrateCommand(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	dbPath := filepath.Join(dir, "bot.db")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
log:
  level: error
database:
  provider: sqlite
  name: `+dbPath+`
telegram:
  token: "123:abc"
  owner_id: 1
`), 0o600))

	root := newRootCmd()
	root.SetArgs([]string{"migrate", "--config", cfgPath})
	require.NoError(t, root.Execute())

	_, err := os.Stat(dbPath)
	require.NoError(t, err)
}

func TestMigrateCommandRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("database:\n  provider: mysql\n"), 0o600))

	root := newRootCmd()
	root.SetArgs([]string{"migrate", "--config", cfgPath})
	root.SetErr(io.Discard)
	require.Error(t, root.Execute())
}
