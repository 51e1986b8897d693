package helper

import (
	"os"
	"path/filepath"
)

// ConfigDirEnv names the environment variable that overrides the config search directory.
const ConfigDirEnv = "TENANTLY_CONFIG_DIR"

// fallbackConfigDir is used when the file is found nowhere else.
const fallbackConfigDir = "/etc/tenantly"

// GetCfgPath returns the path to the configuration file.
//
// Priority:
//  1. If filename is an absolute path, return it directly.
//  2. $TENANTLY_CONFIG_DIR/{filename}
//  3. ./{filename} and ./configs/{filename}
//  4. Otherwise, fallback to /etc/tenantly/{filename}
func GetCfgPath(filename string) string {
	if filename == "" {
		panic("filename cannot be empty")
	}

	if filepath.IsAbs(filename) {
		return filename
	}

	for _, dir := range searchDirs() {
		candidate := filepath.Join(dir, filename)
		if _, err := os.Stat(candidate); err != nil {
			continue
		}
		if abs, err := filepath.Abs(candidate); err == nil {
			return abs
		}
	}

	return filepath.Join(fallbackConfigDir, filename)
}

func searchDirs() []string {
	var dirs []string
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		dirs = append(dirs, dir)
	}

	cwd, err := os.Getwd()
	if err != nil || cwd == "" {
		return dirs
	}
	return append(dirs, cwd, filepath.Join(cwd, "configs"))
}
