package game

import "sort"

// VoteResult is the outcome of one tally pass. Eliminated is empty on a tie;
// Runoff then carries the tied leaders (sorted for determinism). Re-running a
// runoff round is the caller's policy, not the resolver's.
type VoteResult struct {
	Tally      map[string]int
	Eliminated string
	Runoff     []string
}

// ResolveVote tallies votes among the eligible targets. Ballots naming an
// ineligible target are dropped before tallying. Pure and idempotent: the
// same inputs always produce the same result.
func ResolveVote(votes map[string]string, eligible []string) VoteResult {
	eligibleSet := make(map[string]bool, len(eligible))
	for _, id := range eligible {
		eligibleSet[id] = true
	}
	tally := make(map[string]int)
	for _, target := range votes {
		if eligibleSet[target] {
			tally[target]++
		}
	}
	if len(tally) == 0 {
		return VoteResult{Tally: tally}
	}
	maxCount := 0
	for _, n := range tally {
		if n > maxCount {
			maxCount = n
		}
	}
	var leaders []string
	for id, n := range tally {
		if n == maxCount {
			leaders = append(leaders, id)
		}
	}
	sort.Strings(leaders)
	if len(leaders) == 1 {
		return VoteResult{Tally: tally, Eliminated: leaders[0]}
	}
	return VoteResult{Tally: tally, Runoff: leaders}
}

// ResolveNightKill is a pure function of the wolf target, the doctor's
// protected target and the doctor's id. No target means no attempt; a
// matching protection turns the kill into a save.
func ResolveNightKill(target, protectTarget, doctorID string) KillOutcome {
	if target == "" {
		return KillOutcome{Success: false}
	}
	if protectTarget != "" && target == protectTarget {
		return KillOutcome{Target: target, Success: false, SavedBy: doctorID}
	}
	return KillOutcome{Target: target, Success: true}
}

// WolfKillTarget picks the night's victim: the first valid vote in the fixed
// wolf roster order wins. This is deliberately a first-mover rule, not a
// majority vote. A vote is valid when the target is alive and not a wolf.
func WolfKillTarget(s *State, actions map[string]NightAction) string {
	for _, wolfID := range s.Wolves() {
		if !s.IsAlive(wolfID) {
			continue
		}
		a, ok := actions[wolfID]
		if !ok || a.Target == "" {
			continue
		}
		if !s.IsAlive(a.Target) || s.AlignmentOf(a.Target) == AlignmentWolves {
			continue
		}
		return a.Target
	}
	return ""
}
