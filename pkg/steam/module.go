// Package steam locates the CS2 installation and installs the game
// state integration config that makes the game POST to us.
package steam

import (
	"bufio"
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

//go:embed gamestate_integration_cs2chroma.cfg
var gamestateConfig []byte

const configName = "gamestate_integration_cs2chroma.cfg"

// The Steam app id of Counter-Strike 2.
const appID = "730"

// findLibrary scans steamapps/libraryfolders.vdf for the library
// containing CS2. The format is Valve's VDF; a line scan for the two
// keys we need is all it takes.
func findLibrary(steamPath string) (string, error) {
	libraries := filepath.Join(steamPath, "steamapps", "libraryfolders.vdf")

	file, err := os.Open(libraries)
	if err != nil {
		return "", fmt.Errorf("could not read steam library folders: %v", err)
	}
	defer file.Close()

	var library string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.Contains(line, `"path"`) {
			path := strings.ReplaceAll(line, `"path"`, "")
			path = strings.ReplaceAll(path, `"`, "")
			path = strings.TrimSpace(path)
			if _, err := os.Stat(path); err == nil {
				library = path
			} else {
				library = ""
			}
		}
		if strings.Contains(line, `"`+appID+`"`) {
			if library == "" {
				return "", fmt.Errorf("the steam library containing cs2 does not exist")
			}
			return library, nil
		}
	}

	return "", fmt.Errorf("could not find cs2 in any steam library")
}

func configDir(library string) (string, error) {
	dir := filepath.Join(
		library,
		"steamapps", "common",
		"Counter-Strike Global Offensive",
		"game", "csgo", "cfg",
	)
	if _, err := os.Stat(dir); err != nil {
		return "", fmt.Errorf("cs2 config directory missing: %s", dir)
	}
	return dir, nil
}

// upToDate compares the installed config's first line against ours;
// the first line doubles as a version marker.
func upToDate(path string) bool {
	file, err := os.Open(path)
	if err != nil {
		return false
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	if !scanner.Scan() {
		return false
	}

	expected := bytes.SplitN(gamestateConfig, []byte("\n"), 2)[0]
	return scanner.Text() == strings.TrimRight(string(expected), "\r")
}

// InstallConfig drops our game state integration config into the CS2
// cfg directory, replacing an outdated one. Returns whether anything
// was written.
func InstallConfig() (bool, error) {
	steamPath, err := findSteam()
	if err != nil {
		return false, err
	}

	library, err := findLibrary(steamPath)
	if err != nil {
		return false, err
	}

	dir, err := configDir(library)
	if err != nil {
		return false, err
	}

	target := filepath.Join(dir, configName)
	if upToDate(target) {
		log.Debug().Str("path", target).Msg("gamestate config up to date")
		return false, nil
	}

	if err := os.WriteFile(target, gamestateConfig, 0644); err != nil {
		if os.IsPermission(err) {
			return false, fmt.Errorf(
				"no permission to write %s; try running as administrator",
				target,
			)
		}
		return false, err
	}

	log.Info().Str("path", target).Msg("installed gamestate config; restart the game to pick it up")
	return true, nil
}

// Launch starts the given executable (typically the game or a
// launcher) without waiting for it.
func Launch(command []string) error {
	if len(command) == 0 {
		return nil
	}

	cmd := exec.Command(command[0], command[1:]...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("could not launch %s: %v", command[0], err)
	}

	log.Info().Str("command", strings.Join(command, " ")).Msg("launched")
	return cmd.Process.Release()
}
