/*
Package monitoring provides metrics collection.

# Overview

This package implements Prometheus-based metrics for the gaze service,
tracking HTTP requests, frame processing, pipeline lifecycles, page output
and WebSocket traffic.

# Features

- HTTP request metrics (latency, throughput, size)
- Frame metrics (processing time, samples consumed and dropped, dropouts)
- Pipeline metrics (starts, outcomes, duration, running count)
- Page command and feedback metrics
- Drift correction updates
- WebSocket connection metrics
- System metrics (uptime)

# Usage

	// Create metrics collector
	metrics := monitoring.NewMetrics()
	defer metrics.Close()

	// Add middleware to Gin router
	router.Use(monitoring.Middleware(metrics))

	// Record pipeline lifecycle
	metrics.RecordPipelineStarted("click", "gaze")
	metrics.RecordPipelineEnded("click", "succeeded", time.Second)

All recording methods accept a nil *Metrics and do nothing, so components
can run without monitoring in tests.

# Metrics Endpoint

Expose metrics via the standard Prometheus endpoint:

	import "github.com/prometheus/client_golang/prometheus/promhttp"
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
*/
package monitoring
