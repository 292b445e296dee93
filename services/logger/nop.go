package logsvc

import (
	"go.uber.org/zap"

	"github.com/trezcool/gradecalc/core"
)

// NewNopLogger discards everything. Used by tests.
func NewNopLogger() core.Logger {
	return NewZap(zap.NewNop())
}
