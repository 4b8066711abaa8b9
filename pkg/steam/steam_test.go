package steam

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeLibraryFolders(t *testing.T, steamPath string, vdf string) {
	dir := filepath.Join(steamPath, "steamapps")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "libraryfolders.vdf"),
		[]byte(vdf),
		0644,
	))
}

func TestFindLibrary(t *testing.T) {
	steamPath := t.TempDir()
	other := t.TempDir()

	// CS2 lives in the second library
	vdf := fmt.Sprintf(`"libraryfolders"
{
	"0"
	{
		"path"		"%s"
		"apps"
		{
			"220"		"123456"
		}
	}
	"1"
	{
		"path"		"%s"
		"apps"
		{
			"730"		"987654"
		}
	}
}
`, steamPath, other)

	writeLibraryFolders(t, steamPath, vdf)

	library, err := findLibrary(steamPath)
	require.NoError(t, err)
	require.Equal(t, other, library)
}

func TestFindLibraryMissingGame(t *testing.T) {
	steamPath := t.TempDir()

	vdf := fmt.Sprintf(`"libraryfolders"
{
	"0"
	{
		"path"		"%s"
		"apps"
		{
			"220"		"123456"
		}
	}
}
`, steamPath)

	writeLibraryFolders(t, steamPath, vdf)

	_, err := findLibrary(steamPath)
	require.Error(t, err)
}

func TestFindLibraryBrokenPath(t *testing.T) {
	steamPath := t.TempDir()

	// The library claiming CS2 points at a directory that is gone.
	vdf := `"libraryfolders"
{
	"0"
	{
		"path"		"/does/not/exist"
		"apps"
		{
			"730"		"987654"
		}
	}
}
`

	writeLibraryFolders(t, steamPath, vdf)

	_, err := findLibrary(steamPath)
	require.Error(t, err)
}

func TestUpToDate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, configName)

	require.False(t, upToDate(path))

	require.NoError(t, os.WriteFile(path, gamestateConfig, 0644))
	require.True(t, upToDate(path))

	// An older config with a different version marker gets replaced.
	stale := []byte("\"Counter-Strike 2 Razer Chroma Integration v1\"\n{\n}\n")
	require.NoError(t, os.WriteFile(path, stale, 0644))
	require.False(t, upToDate(path))
}

func TestLaunchEmpty(t *testing.T) {
	require.NoError(t, Launch(nil))
}
