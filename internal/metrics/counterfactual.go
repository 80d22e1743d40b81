package metrics

import "werewolf-arena/internal/game"

// buildCounterfactual replays each day's vote with one ballot removed at a
// time. A ballot is pivotal when its removal changes who gets eliminated,
// including flipping the day into a runoff.
func (e *Engine) buildCounterfactual(rep *Report, votes []dayVotes, ids []string) {
	var pivotal []PivotalVote
	counts := make(map[string]int, len(ids))
	for _, id := range ids {
		counts[id] = 0
	}

	for _, dv := range votes {
		if dv.eliminated == "" {
			continue
		}
		ballots := eligibleBallots(dv)
		for _, skip := range ballots {
			reduced := make(map[string]string, len(ballots)-1)
			for _, b := range ballots {
				if b.Voter == skip.Voter {
					continue
				}
				reduced[b.Voter] = b.Target
			}
			res := game.ResolveVote(reduced, dv.eligible)
			if res.Eliminated != dv.eliminated {
				pivotal = append(pivotal, PivotalVote{Day: dv.day, Voter: skip.Voter, Target: skip.Target})
				counts[skip.Voter]++
			}
		}
	}

	rep.Counterfactual = Counterfactual{PivotalVotes: pivotal, PerAgentCount: counts}
}
