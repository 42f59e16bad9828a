package domain

// ChunkStats summarizes one chunking batch for logs and diagnostics.
type ChunkStats struct {
	TotalChunks     int
	MinChunkSize    int
	MaxChunkSize    int
	AvgChunkSize    int
	TotalCharacters int
}

func ChunkStatistics(chunks []Chunk) ChunkStats {
	if len(chunks) == 0 {
		return ChunkStats{}
	}

	stats := ChunkStats{
		TotalChunks:  len(chunks),
		MinChunkSize: chunks[0].ChunkSize,
	}
	for _, c := range chunks {
		if c.ChunkSize < stats.MinChunkSize {
			stats.MinChunkSize = c.ChunkSize
		}
		if c.ChunkSize > stats.MaxChunkSize {
			stats.MaxChunkSize = c.ChunkSize
		}
		stats.TotalCharacters += c.ChunkSize
	}
	stats.AvgChunkSize = stats.TotalCharacters / len(chunks)
	return stats
}
