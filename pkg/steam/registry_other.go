//go:build !windows

package steam

import (
	"fmt"
)

func findSteam() (string, error) {
	return "", fmt.Errorf("automatic gamestate config installation is only supported on windows")
}
