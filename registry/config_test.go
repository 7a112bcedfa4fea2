package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	err := os.WriteFile(path, []byte(`
[registry]
name = "ipo"
open_mutation = false
strict_uris = true

[api]
listen = ":7942"

[feed]
nats = "nats://127.0.0.1:4222"
subject = "ipo.events"
batch = 64
`), 0644)
	require.Nil(err)

	conf, err := Setup(path)
	require.Nil(err)
	require.Equal("ipo", conf.Registry.Name)
	require.False(conf.Registry.OpenMutation)
	require.True(conf.Registry.StrictURIs)
	require.Equal(":7942", conf.API.Listen)
	require.Equal("nats://127.0.0.1:4222", conf.Feed.NATS)
	require.Equal("ipo.events", conf.Feed.Subject)
	require.Equal(64, conf.Feed.Batch)

	err = os.WriteFile(path, []byte("[registry]\n"), 0644)
	require.Nil(err)
	_, err = Setup(path)
	require.NotNil(err)

	_, err = Setup(filepath.Join(t.TempDir(), "missing.toml"))
	require.NotNil(err)
}
