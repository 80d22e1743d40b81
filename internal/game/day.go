package game

// ResolveDay applies one day's discussion turns and ordered ballots. Ballots
// with an unknown voter or target are dropped as abstentions before the
// resolver runs; the eligible-target set is the living roster at vote time.
// On a tie nobody is eliminated and the tied set is recorded for the caller.
// The day counter increments exactly once per call.
func ResolveDay(s *State, discussion []DiscussionTurn, ballots []Ballot) (*DayRecord, error) {
	day := s.dayNumber
	alive := s.Living()
	s.appendEvent(Event{Type: EventDayStart, Phase: PhaseDay, Index: day})

	votes := make(map[string]string, len(ballots))
	var kept []Ballot
	for _, b := range ballots {
		if _, ok := s.byID[b.Voter]; !ok {
			continue
		}
		if _, ok := s.byID[b.Target]; !ok {
			continue
		}
		if err := s.recordVote(b.Voter, b.Target, day, b.Reason); err != nil {
			return nil, err
		}
		votes[b.Voter] = b.Target
		kept = append(kept, b)
	}

	result := ResolveVote(votes, alive)

	resolution := VoteResolution{Tally: result.Tally, Runoff: result.Runoff}
	if result.Eliminated != "" {
		p, ok := s.Player(result.Eliminated)
		if !ok {
			return nil, invariant(PhaseDay, day, "vote resolver chose unknown player %s", result.Eliminated)
		}
		resolution.Eliminated = &EliminatedPayload{
			PlayerID:  p.ID,
			Role:      p.Role,
			Alignment: p.Alignment,
			Day:       day,
		}
		if err := s.eliminate(p.ID, CauseVote, PhaseDay, day); err != nil {
			return nil, err
		}
	} else {
		s.appendEvent(Event{Type: EventNoElimination, Phase: PhaseDay, Index: day, Tally: result.Tally})
	}

	s.dayNumber++

	return &DayRecord{
		Day:        day,
		Alive:      alive,
		Discussion: discussion,
		Ballots:    kept,
		Resolution: resolution,
	}, nil
}
