// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments
// (development vs production) and a helper to correlate log entries produced
// while processing a single sync cycle.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Encoding: json (production) or console (development)
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("Cycle started")
//
//	// While processing a cycle:
//	l := logger.WithCycle(log, cycleID)
//	l.Error("Apply failed", zap.Error(err))
package logger
