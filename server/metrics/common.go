package metrics

const (
	// Startup pull metrics.
	PullSuccessMetric     = "pull_success"
	PullFailureMetric     = "pull_failure"
	PullTimeoutMetric     = "pull_timeout"
	PullToolMissingMetric = "pull_tool_missing"
	PullErrorMetric       = "pull_error"
	PullLatencyMetric     = "pull_latency"

	// HTTP surface metrics.
	RequestCountMetric   = "request"
	RequestLatencyMetric = "request_latency"
	AssetMissingMetric   = "asset_missing"

	RouteTag  = "route"
	StatusTag = "status"
)
