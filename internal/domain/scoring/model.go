package scoring

import (
	"sort"
	"time"

	"github.com/riskibarqy/castaway-league/internal/domain/team"
)

// Standing is one leaderboard row. Rank is positional (1..n); ties on
// points are broken by team creation order.
type Standing struct {
	Rank        int       `json:"rank"`
	TeamID      string    `json:"teamId"`
	TeamName    string    `json:"teamName"`
	OwnerUserID string    `json:"ownerUserId"`
	TotalPoints int64     `json:"totalPoints"`
	JoinedAt    time.Time `json:"joinedAt"`
}

// RankTeams sorts by total descending, then created_at, then id.
func RankTeams(teams []team.Team) []Standing {
	sorted := append([]team.Team(nil), teams...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.TotalPoints != b.TotalPoints {
			return a.TotalPoints > b.TotalPoints
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})

	out := make([]Standing, 0, len(sorted))
	for i, t := range sorted {
		out = append(out, Standing{
			Rank:        i + 1,
			TeamID:      t.ID,
			TeamName:    t.Name,
			OwnerUserID: t.OwnerUserID,
			TotalPoints: t.TotalPoints,
			JoinedAt:    t.CreatedAt,
		})
	}
	return out
}
