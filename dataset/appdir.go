package dataset

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// appNamespace is the directory name appended to the platform user-data
// directory for all cached datasets.
const appNamespace = "mldata"

// DefaultRoot returns the platform-conventional per-user cache root:
// ~/.local/share/mldata on Unix-family systems, %LOCALAPPDATA%\mldata on
// Windows. The directory is not created here; Builder.Create does that.
func DefaultRoot() string {
	return filepath.Join(xdg.DataHome, appNamespace)
}

// resolveRoot applies the override-before-default precedence. The override
// is returned verbatim; the caller is responsible for its writability.
func resolveRoot(override string) string {
	if override != "" {
		return override
	}
	return DefaultRoot()
}
