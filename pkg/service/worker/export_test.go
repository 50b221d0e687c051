package worker

// CheckAll is exported for testing
var CheckAll = (*HealthMonitor).checkAll
