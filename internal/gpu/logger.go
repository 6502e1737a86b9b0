//go:build !nogpu

package gpu

import (
	"log/slog"

	"github.com/gogpu/mandel"
)

// slogger returns the current module logger.
// All logging in internal/gpu goes through this function, so engine
// output follows whatever handler mandel.SetLogger installed.
func slogger() *slog.Logger { return mandel.Logger() }
