package loadtest

// Percentile is exported for testing
var Percentile = percentile

// BuildResult is exported for testing
var BuildResult = buildResult
