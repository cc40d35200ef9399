package seed

import (
	"context"
	"fmt"
	"time"

	"aimploy/internal/utils"
	"aimploy/pkg/types"
)

// CandidateSeeder inserts a candidate unless its id already exists.
type CandidateSeeder interface {
	SeedCandidate(ctx context.Context, candidate *types.Candidate) (bool, error)
}

// DemoCandidates are the applications inserted by the seed command. Fixed
// ids keep reseeding idempotent. File references are left empty so the
// rows do not point at files that were never stored.
func DemoCandidates(now time.Time) []types.Candidate {
	return []types.Candidate{
		{
			ID:               "seed_ada_lovelace",
			Name:             "Ada Lovelace",
			Email:            "ada@example.com",
			Phone:            "5550100001",
			BehavioralAnswer: utils.StringPtr("I enjoy turning rough ideas into working machines."),
			CreatedAt:        now.Add(-72 * time.Hour),
		},
		{
			ID:               "seed_grace_hopper",
			Name:             "Grace Hopper",
			Email:            "grace@example.com",
			Phone:            "5550100002",
			BehavioralAnswer: utils.StringPtr("Your team ships tools people actually use."),
			CreatedAt:        now.Add(-48 * time.Hour),
		},
		{
			ID:        "seed_alan_turing",
			Name:      "Alan Turing",
			Email:     "alan@example.com",
			Phone:     "5550100003",
			CreatedAt: now.Add(-24 * time.Hour),
		},
	}
}

// SeedCandidates inserts the demo candidates and returns how many were new.
func SeedCandidates(ctx context.Context, repo CandidateSeeder, now time.Time) (int, error) {
	inserted := 0
	for _, candidate := range DemoCandidates(now) {
		ok, err := repo.SeedCandidate(ctx, &candidate)
		if err != nil {
			return inserted, fmt.Errorf("failed to seed candidate %s: %w", candidate.ID, err)
		}
		if ok {
			inserted++
		}
	}
	return inserted, nil
}
