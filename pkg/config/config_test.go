package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProcess(t *testing.T) {
	// Default config
	config, err := Process([]string{})
	require.NoError(t, err)
	require.Equal(t, 3003, config.Listen.Port)
	require.True(t, config.Effects.Kill)
	require.False(t, config.Indicators.Defusal)

	dir := t.TempDir()

	// yaml config
	{
		yaml := filepath.Join(dir, "config.yaml")
		err = os.WriteFile(yaml, []byte(`
listen:
  port: 4000
effects:
  kill: false
`), 0644)
		require.NoError(t, err)
		config, err = Process([]string{yaml})
		require.NoError(t, err)
		require.Equal(t, 4000, config.Listen.Port)
		require.False(t, config.Effects.Kill)
		// Untouched settings keep their defaults
		require.True(t, config.Effects.Flash)
	}

	// json config
	{
		json := filepath.Join(dir, "config.json")
		err = os.WriteFile(json, []byte(`{
  "indicators": {
    "defusal": true
  }
}`), 0644)
		require.NoError(t, err)
		config, err = Process([]string{json})
		require.NoError(t, err)
		require.True(t, config.Indicators.Defusal)
	}

	// multiple files, later ones refine earlier ones
	{
		yaml1 := filepath.Join(dir, "config1.yaml")
		err = os.WriteFile(yaml1, []byte(`
listen:
  port: 4000
`), 0644)
		require.NoError(t, err)

		yaml2 := filepath.Join(dir, "config2.yaml")
		err = os.WriteFile(yaml2, []byte(`
closeAfterGameClose: true
`), 0644)
		require.NoError(t, err)
		config, err = Process([]string{yaml1, yaml2})
		require.NoError(t, err)
		require.Equal(t, 4000, config.Listen.Port)
		require.True(t, config.CloseAfterGameClose)
	}

	// invalid values are rejected
	{
		yaml := filepath.Join(dir, "bad.yaml")
		err = os.WriteFile(yaml, []byte(`
listen:
  port: -1
`), 0644)
		require.NoError(t, err)
		_, err = Process([]string{yaml})
		require.Error(t, err)
	}
}

func TestEnsure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cs2chroma.yaml")

	// First run creates the file
	config, created, err := Ensure(path)
	require.NoError(t, err)
	require.True(t, created)
	require.FileExists(t, path)
	require.Equal(t, 3003, config.Listen.Port)

	// Second run leaves it alone
	_, created, err = Ensure(path)
	require.NoError(t, err)
	require.False(t, created)

	// A corrupt file is moved aside and regenerated
	err = os.WriteFile(path, []byte("listen: {port: \"what\""), 0644)
	require.NoError(t, err)
	config, created, err = Ensure(path)
	require.NoError(t, err)
	require.True(t, created)
	require.FileExists(t, path+".bad")
	require.Equal(t, 3003, config.Listen.Port)
}
