package writer

import "time"

// WriterConfig holds writer configuration.
type WriterConfig struct {
	BatchSize     int           // Max rows per insert batch
	FlushInterval time.Duration // Max time a row waits before flushing
}

// DefaultWriterConfig returns sensible defaults.
func DefaultWriterConfig() WriterConfig {
	return WriterConfig{
		BatchSize:     500,
		FlushInterval: 2 * time.Second,
	}
}

// WriterMetrics contains writer statistics.
type WriterMetrics struct {
	Inserts   int64 // Rows inserted
	Conflicts int64 // Rows skipped by ON CONFLICT
	Flushes   int64 // Flush operations
	Errors    int64 // Failed flushes
}
