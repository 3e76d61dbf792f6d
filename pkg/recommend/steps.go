package recommend

import (
	"context"
	"fmt"

	"moodify/pkg/mood"
	"moodify/pkg/spotify"
)

// Step names, also used as metric labels.
const (
	stepInitial    = "initial"
	stepCredential = "credential"
	stepRegion     = "region"
	stepSeedGenre  = "seed-genre"
	stepMinimal    = "minimal"
	stepSeedTrack  = "seed-track"
)

// step is one entry of the degradation chain. It runs only while the previous
// attempt failed and when reports that its constraint is worth relaxing.
// apply mutates the attempt; a non-nil error ends the resolution.
type step struct {
	name  string
	when  func(a *attempt) bool
	apply func(ctx context.Context, a *attempt) error
}

// The credential step sits at the head of the chain; a 401 from a later step
// re-enters it through retryUnauthorized, at most once per resolution.
func (r *Resolver) degradationSteps() []step {
	return []step{
		{
			name:  stepCredential,
			when:  needsReauth,
			apply: r.reauthenticate,
		},
		{
			name: stepRegion,
			when: func(a *attempt) bool { return a.query.Market != "" },
			apply: func(_ context.Context, a *attempt) error {
				a.query.Market = ""
				return nil
			},
		},
		{
			name: stepSeedGenre,
			when: func(a *attempt) bool {
				return a.query.SeedTrack == "" && a.query.SeedGenre != mood.DefaultSeed
			},
			apply: func(_ context.Context, a *attempt) error {
				a.query.SeedGenre = mood.DefaultSeed
				return nil
			},
		},
		{
			name: stepMinimal,
			when: func(*attempt) bool { return true },
			apply: func(_ context.Context, a *attempt) error {
				a.query = spotify.Query{
					Mode:      spotify.ModeRecommendations,
					SeedGenre: mood.DefaultSeed,
					Limit:     r.defaultLimit,
					Market:    mood.DefaultMarket,
				}
				return nil
			},
		},
		{
			name: stepSeedTrack,
			when: func(*attempt) bool { return r.seedTrack != "" },
			apply: func(_ context.Context, a *attempt) error {
				a.query.Mode = spotify.ModeRecommendations
				a.query.Offset = 0
				a.query.SeedGenre = ""
				a.query.SeedTrack = r.seedTrack
				return nil
			},
		},
	}
}

func needsReauth(a *attempt) bool {
	return !a.reauthed && spotify.IsUnauthorized(a.err)
}

// reauthenticate swaps a rejected token for a service token. A rejected
// service token is invalidated first so a fresh one is exchanged.
func (r *Resolver) reauthenticate(ctx context.Context, a *attempt) error {
	a.reauthed = true
	if a.user {
		if r.service == nil {
			return ErrUserCredentialRejected
		}
		tok, err := r.service.Token(ctx)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrUserCredentialRejected, err)
		}
		a.token, a.user = tok, false
		return nil
	}
	r.service.Invalidate(ctx)
	tok, err := r.service.Token(ctx)
	if err != nil {
		return err
	}
	a.token = tok
	return nil
}
