package common

import "time"

// Retention capacities per logical collection. Oldest entries are evicted
// first when a cap is exceeded.
const (
	FlaggedEventCap      = 250
	ActivityLogFamilyCap = 500
	RevealEventCap       = 1000
)

const (
	// MaxBatchItems bounds one /analyze-batch request.
	MaxBatchItems = 50
	// BatchItemCharBudget truncates each batch item before prompting.
	BatchItemCharBudget = 1000
)

const (
	// ImageDownloadTimeout bounds one remote image fetch.
	ImageDownloadTimeout = 10 * time.Second
	// VerdictCacheTTL is how long a cached verdict stays valid.
	VerdictCacheTTL = 15 * time.Minute
)

// Storage backend tags reported in write responses.
const (
	StoragePostgres = "postgres"
	StorageLocal    = "local"
)
