package httpapi

import "testing"

func TestShouldTraceRequest_SkippedPaths(t *testing.T) {
	paths := []string{"/api/health", "/healthz", "/metrics", " /API/Health "}
	for _, path := range paths {
		if shouldTraceRequest(path) {
			t.Fatalf("expected no tracing for path %q", path)
		}
	}
}

func TestShouldTraceRequest_APIPaths(t *testing.T) {
	paths := []string{"/api/today-players", "/api/live-scores", "/", "/docs"}
	for _, path := range paths {
		if !shouldTraceRequest(path) {
			t.Fatalf("expected tracing for path %q", path)
		}
	}
}
