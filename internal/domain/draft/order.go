package draft

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
)

// BuildTurnOrder expands teamIDs into the full pick sequence for rounds rounds.
// The result is deterministic for a given seed.
func BuildTurnOrder(strategy OrderStrategy, teamIDs []string, rounds int, seed string) ([]string, error) {
	if len(teamIDs) < 2 {
		return nil, ErrInsufficientTeams
	}
	if rounds < 1 {
		return nil, fmt.Errorf("rounds must be >= 1")
	}

	seen := make(map[string]struct{}, len(teamIDs))
	for _, id := range teamIDs {
		if id == "" {
			return nil, fmt.Errorf("team id is required")
		}
		if _, ok := seen[id]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTeam, id)
		}
		seen[id] = struct{}{}
	}

	base := append([]string(nil), teamIDs...)
	switch strategy {
	case OrderSequential, OrderSnake:
	case OrderRandom:
		rng := rand.New(rand.NewPCG(seedFor(seed), uint64(len(base))))
		rng.Shuffle(len(base), func(i, j int) { base[i], base[j] = base[j], base[i] })
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}

	order := make([]string, 0, len(base)*rounds)
	for round := 0; round < rounds; round++ {
		if strategy == OrderSnake && round%2 == 1 {
			for i := len(base) - 1; i >= 0; i-- {
				order = append(order, base[i])
			}
			continue
		}
		order = append(order, base...)
	}
	return order, nil
}

func seedFor(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}
