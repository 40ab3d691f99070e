package genswings

import (
	"fmt"
	"log"
	"sort"
)

// verifyReports checks the retrieved reports for internal consistency.
func verifyReports(config *Config, sessions []Session, reports []Report, stats *Stats) error {
	log.Println("verifying reports...")

	if len(reports) == 0 {
		return fmt.Errorf("no reports to verify")
	}

	swingsBySession := make(map[string]int, len(sessions))
	for _, s := range sessions {
		swingsBySession[s.SessionID] = config.SwingCount
	}

	withBall := 0
	for _, report := range reports {
		if report.Ball == nil {
			log.Printf("warning: report for %s has no batted-ball section", report.SessionID)
			continue
		}
		withBall++

		ball := report.Ball
		if ball.BallScore < 0 || ball.BallScore > 100 {
			return fmt.Errorf("session %s: ball score %d out of range", report.SessionID, ball.BallScore)
		}
		if ball.ContactRate < 0 || ball.ContactRate > 100 {
			return fmt.Errorf("session %s: contact rate %.1f out of range", report.SessionID, ball.ContactRate)
		}
		if expected := swingsBySession[report.SessionID]; expected > 0 {
			if ball.TotalSwings+report.SkippedRows != expected {
				return fmt.Errorf("session %s: %d swings plus %d skipped does not match %d generated",
					report.SessionID, ball.TotalSwings, report.SkippedRows, expected)
			}
		}
	}

	stats.ReportsWithBall = withBall

	displayTopSessions(sessions, reports, config.Verbose)

	log.Println("report verification completed")
	return nil
}

// displayTopSessions shows the highest scoring sessions.
func displayTopSessions(sessions []Session, reports []Report, verbose bool) {
	profileBySession := make(map[string]string, len(sessions))
	for _, s := range sessions {
		profileBySession[s.SessionID] = s.Profile
	}

	scored := make([]Report, 0, len(reports))
	for _, r := range reports {
		if r.Ball != nil {
			scored = append(scored, r)
		}
	}
	sort.Slice(scored, func(i, j int) bool {
		return scored[i].Ball.BallScore > scored[j].Ball.BallScore
	})

	topN := 10
	if len(scored) < topN {
		topN = len(scored)
	}

	log.Printf("top %d sessions by ball score:", topN)
	for i := 0; i < topN; i++ {
		r := scored[i]
		log.Printf("   %d. %s (%s) - Score: %d, Contact: %.1f%%",
			i+1, r.SessionID, profileBySession[r.SessionID], r.Ball.BallScore, r.Ball.ContactRate)
	}

	if verbose && len(scored) > 0 {
		avgScore := calculateAverageScore(scored)
		maxScore := scored[0].Ball.BallScore
		minScore := scored[len(scored)-1].Ball.BallScore

		log.Printf(`score statistics:
   Average: %.1f
   Maximum: %d
   Minimum: %d
`, avgScore, maxScore, minScore)
	}
}

// calculateAverageScore calculates the average ball score across reports.
func calculateAverageScore(reports []Report) float64 {
	if len(reports) == 0 {
		return 0
	}

	sum := 0
	for _, r := range reports {
		sum += r.Ball.BallScore
	}

	return float64(sum) / float64(len(reports))
}
