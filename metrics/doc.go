// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package metrics counts session activity with OpenCensus views and serves
// them in Prometheus format on /metrics.
package metrics
