package game

import (
	"math"

	"github.com/rs/zerolog/log"
)

// tierPolicy says how one score tier is searched for a reply-safe move.
type tierPolicy struct {
	name string
	// scan tries every member in row-major order instead of one random member.
	scan bool
	// recheck re-tests the random fallback once the scan found nothing.
	recheck bool
	// trust commits a random member without any check.
	trust bool
}

var tierPolicies = [...]tierPolicy{
	{name: "best"},
	{name: "average", scan: true, recheck: true},
	{name: "worse", trust: true},
}

// choose walks the tiers from the highest score down. When a tier is missing
// the last fallback is played even though it is known to be unsafe.
func (b *Bot) choose(g *Grid, cands Candidates) Pos {
	ceiling := math.MaxInt
	var fallback Pos
	for _, policy := range tierPolicies {
		tier := cands.Below(ceiling)
		if tier.Empty() {
			break
		}
		ceiling = tier.Score
		log.Debug().Str("tier", policy.name).Int("score", tier.Score).Int("moves", len(tier.Moves)).Msg("tier-trial")

		if policy.trust {
			return tier.Pick(b.src)
		}
		if policy.scan {
			for _, m := range tier.Moves {
				if b.replySafe(g, m) {
					return m
				}
			}
			fallback = tier.Pick(b.src)
			if policy.recheck && b.replySafe(g, fallback) {
				return fallback
			}
			continue
		}
		fallback = tier.Pick(b.src)
		if b.replySafe(g, fallback) {
			return fallback
		}
	}
	log.Debug().Int("row", fallback.Row).Int("col", fallback.Col).Msg("no-safe-move")
	return fallback
}

// replySafe trial-plays p, answers with one greedy opponent reply and reports
// whether the round is still open afterwards. Only a single reply is
// simulated, so a safe verdict is not a proof.
func (b *Bot) replySafe(g *Grid, p Pos) bool {
	snap := g.Snapshot()
	defer g.Restore(snap)

	b.place(g, p, b.mark)
	reply := EnumerateCandidates(g).Best()
	if reply.Empty() {
		return true
	}
	b.place(g, reply.Pick(b.src), b.mark.Opponent())
	return !g.IsTerminal()
}
