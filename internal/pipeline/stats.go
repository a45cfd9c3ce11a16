package pipeline

// RunStats tracks what the inspection pass found.
type RunStats struct {
	Total    int // Files in the playlist.
	Current  int // Files inspected so far.
	Failed   int // Files that could not be probed or validated.
	Warned   int // Files with at least one policy warning.
	Warnings int // Policy warnings across all streams.
}

// HasWarnings reports whether any file failed or drew a warning. It decides
// the grace period before playback.
func (s *RunStats) HasWarnings() bool {
	return s.Failed > 0 || s.Warned > 0
}
