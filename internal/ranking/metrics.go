package ranking

import (
	"math"
)

// Metrics are the aggregate voting statistics for one post or comment.
// They are derived, never stored: recomputed from the vote set on every read.
type Metrics struct {
	Upvotes          int     `json:"upvotes"`
	Downvotes        int     `json:"downvotes"`
	TotalVotes       int     `json:"total_votes"`
	TotalScore       int     `json:"total_score"`
	UpvoteRatio      float64 `json:"upvote_ratio"`
	ControversyScore float64 `json:"controversy_score"`
}

// Calculate folds a sequence of vote values into Metrics. Only +1 and -1
// count; 0 marks a retracted vote and is ignored. An empty sequence is valid
// and yields all-zero metrics.
//
// Controversy peaks when upvotes and downvotes are balanced (ratio near 0.5)
// and grows with engagement volume, log-scaled so a single vote does not
// dominate. A unanimous item scores near zero controversy regardless of volume.
func Calculate(votes []int) Metrics {
	var m Metrics
	for _, v := range votes {
		switch v {
		case 1:
			m.Upvotes++
		case -1:
			m.Downvotes++
		}
	}
	m.TotalVotes = m.Upvotes + m.Downvotes
	m.TotalScore = m.Upvotes - m.Downvotes

	if m.TotalVotes == 0 {
		return m
	}

	m.UpvoteRatio = float64(m.Upvotes) / float64(m.TotalVotes)
	m.ControversyScore = (1 - math.Abs(0.5-m.UpvoteRatio)) * math.Log10(float64(m.TotalVotes))
	return m
}
