package app

// RunStats aggregates run-level counters across all repositories
type RunStats struct {
	Repositories int
	CommitsSeen  int
	Generated    int
	Skipped      int
	Failed       int
}

// Merge accumulates another stats value into this one
func (s *RunStats) Merge(other RunStats) {
	s.Repositories += other.Repositories
	s.CommitsSeen += other.CommitsSeen
	s.Generated += other.Generated
	s.Skipped += other.Skipped
	s.Failed += other.Failed
}
