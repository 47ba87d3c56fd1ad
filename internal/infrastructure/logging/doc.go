// Package logging provides structured logging using uber/zap.
//
// This package offers production-ready logging with two modes:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// Components receive a named *zap.Logger from Logger.Component and log with
// structured fields (tab, pipeline_id, kind, slot, outcome).
//
// Example Usage:
//
//	logger, err := logging.FromSettings(cfg.Logging.Level, cfg.Logging.Development)
//	log := logger.Component("coordinator")
//	log.Info("pipeline ended", zap.String("kind", "click"), zap.Error(err))
package logging
