package constant

import "time"

const (
	CacheKeyPrefix          = "seatmap:"
	ConfigurationsKeySuffix = "configurations"
)

const (
	ConfigurationsDefaultTTL = 10 * time.Minute
	CacheScanCount           = 100
)
