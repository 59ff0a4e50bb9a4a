// Package metric provides the counter/gauge primitives, the metric registry,
// and the Prometheus exposition server for the callmeter aggregation engine.
//
// # Architecture
//
// The package has three layers:
//
//  1. Primitives: Counter and Gauge are lock-free atomic value cells that
//     also implement prometheus.Collector, so the shared registry always
//     scrapes live values.
//  2. Registry: owns every registered metric, enforces name uniqueness
//     across the combined counter/gauge namespace, and produces the text
//     exposition snapshot.
//  3. Server: the HTTP scrape endpoint bound to the configured port, with
//     an idempotent stop.
//
// UserStore adds lazily-created, operator-named metrics on top of the
// registry. Its get-or-create operations are single critical sections per
// metric kind, so concurrent first use of the same name yields exactly one
// instance and one registration.
//
// # Basic Usage
//
//	reg := metric.NewRegistry()
//	created := metric.NewCounter("sessions_created_total", "Sessions created")
//	if err := reg.RegisterCounter(created); err != nil {
//	    return err
//	}
//
//	server := metric.NewServer(9282, "/metrics", reg)
//	go func() {
//	    if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
//	        slog.Error("metrics server error", "error", err)
//	    }
//	}()
//	defer server.Stop()
//
//	created.Inc()
package metric
