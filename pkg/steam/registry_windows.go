//go:build windows

package steam

import (
	"fmt"
	"os"

	"golang.org/x/sys/windows/registry"
)

// findSteam reads the Steam install path from the Windows registry.
func findSteam() (string, error) {
	key, err := registry.OpenKey(
		registry.CURRENT_USER,
		`Software\Valve\Steam`,
		registry.QUERY_VALUE,
	)
	if err != nil {
		return "", fmt.Errorf("steam could not be found in the registry: %v", err)
	}
	defer key.Close()

	path, _, err := key.GetStringValue("SteamPath")
	if err != nil {
		return "", fmt.Errorf("steam registry key has no SteamPath: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("steam directory %s does not exist", path)
	}

	return path, nil
}
