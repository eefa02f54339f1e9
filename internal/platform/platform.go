package platform

import (
	"os"
	"path/filepath"
	"strings"
)

// FileExists reports whether path exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ExpandEnv expands $VAR / ${VAR} references and a leading ~ in path.
// References to unset variables are left untouched.
func ExpandEnv(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = home + path[1:]
		}
	}
	return os.Expand(path, func(name string) string {
		if value, ok := os.LookupEnv(name); ok {
			return value
		}
		return "${" + name + "}"
	})
}

// InstallRoot returns the jukebox installation root: $JUKEBOX_ROOT if set,
// otherwise the directory two levels above the running executable
// (binaries live in <root>/src/<tool>/).
func InstallRoot() string {
	if root := os.Getenv("JUKEBOX_ROOT"); root != "" {
		return root
	}

	exe, err := os.Executable()
	if err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		return filepath.Dir(filepath.Dir(filepath.Dir(exe)))
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return cwd
}

// DefaultJukeboxConfig returns the default location of jukebox.yaml.
func DefaultJukeboxConfig() string {
	return filepath.Join(InstallRoot(), "shared", "settings", "jukebox.yaml")
}
