package corelc

import "go.uber.org/zap"

// nopLogger is shared by Normalize and Converter when no *zap.Logger
// is supplied, mirroring mycweb-mycelium's nil-safe default-logger
// convention for injected dependencies.
func nopLogger() *zap.Logger {
	return zap.NewNop()
}

func orNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return nopLogger()
	}
	return l
}
