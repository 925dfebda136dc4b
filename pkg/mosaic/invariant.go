package mosaic

import (
	"github.com/matzehuels/mosaic/pkg/errors"
	"github.com/matzehuels/mosaic/pkg/observability"
)

// violate reports a packing bookkeeping bug. Strict layouts and binaries
// built with the mosaicdebug tag panic; otherwise the violation is counted,
// logged at debug level, and the offending operation becomes a no-op.
func (l *Layout) violate(format string, args ...any) {
	err := errors.New(errors.ErrCodeInvariant, format, args...)
	l.ep.violations++
	observability.Layout().OnDiagnostic("invariant")
	if debugInvariants || l.strict {
		panic(err)
	}
	l.logger.Debug("layout invariant violated", "err", err)
}
