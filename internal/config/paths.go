package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// FileName is the configuration file searched for when no path is given
const FileName = "config.yaml"

const appName = "unifi2icx"

// SearchPaths lists the locations checked, in order, for FileName
func SearchPaths() []string {
	paths := []string{filepath.Join(".", FileName)}

	switch runtime.GOOS {
	case "windows":
		if appDataDir := os.Getenv("APPDATA"); appDataDir != "" {
			paths = append(paths, filepath.Join(appDataDir, appName, FileName))
		}
		if programDataDir := os.Getenv("ProgramData"); programDataDir != "" {
			paths = append(paths, filepath.Join(programDataDir, appName, FileName))
		}
	default:
		if userConfigDir, err := os.UserConfigDir(); err == nil {
			paths = append(paths, filepath.Join(userConfigDir, appName, FileName))
		}
		paths = append(paths, filepath.Join("/etc", appName, FileName))
	}
	return paths
}

// Resolve returns the configuration file to load. An explicit path must
// exist; otherwise the first existing search path is returned, or "" when
// there is none.
func Resolve(path string, explicit bool) (string, error) {
	if explicit {
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("configuration file %s: %v", path, err)
		}
		return path, nil
	}
	return find(SearchPaths()), nil
}

func find(paths []string) string {
	for _, path := range paths {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}
