package metrics

import "werewolf-arena/internal/game"

// Engine mines a finished game record for behavioral signals. It never
// mutates the record; Build is a single pass producing independent
// sub-reports.
type Engine struct {
	Mentions MentionFinder
}

func NewEngine() *Engine {
	return &Engine{Mentions: ExactIDFinder{}}
}

func (e *Engine) Build(rec *game.Record) *Report {
	ids := make([]string, 0, len(rec.Players))
	alignments := make(map[string]game.Alignment, len(rec.Players))
	for _, p := range rec.Players {
		ids = append(ids, p.ID)
		alignments[p.ID] = p.Role.Alignment()
	}

	timeline := extractTimeline(rec)
	votes := extractDayVotes(rec)

	rep := &Report{
		GameID:   rec.GameID,
		PerAgent: make(map[string]AgentSummary, len(ids)),
		PerRole:  make(map[game.Role]RoleSummary),
	}

	e.buildSummaries(rec, rep)
	e.buildDecisionQuality(rec, rep, votes, alignments)
	e.buildInfluence(rep, votes)
	e.buildPersuasion(rec, rep, timeline, votes, ids)
	e.buildResistance(rep, timeline, votes, ids, alignments)
	e.buildEarlySignals(rec, rep, timeline, votes, ids, alignments)
	e.buildStrategyAlignment(rec, rep, timeline, votes, ids)
	e.buildCoordination(rep, timeline, votes, alignments)
	e.buildCounterfactual(rep, votes, ids)
	e.buildStyle(rep, timeline, ids)
	e.buildCentrality(rep, timeline, ids)

	return rep
}

func (e *Engine) buildSummaries(rec *game.Record, rep *Report) {
	winning := rec.FinalResult.WinningSide

	daysSurvived := make(map[string]int)
	eliminatedOn := make(map[string]int)
	votesCast := make(map[string][]game.CastVote)
	votesReceived := make(map[string][]game.ReceivedVote)
	inspections := make(map[string][]game.Inspection)
	protections := make(map[string][]game.Protection)
	var wolvesElimDays []int
	var misElims []MisElim
	totalDays := 0
	dayElimCount := 0

	for _, ph := range rec.Phases {
		switch ph.Type {
		case game.PhaseDay:
			d := ph.Day
			if d.Day > totalDays {
				totalDays = d.Day
			}
			for _, id := range d.Alive {
				daysSurvived[id]++
			}
			for _, b := range d.Ballots {
				votesCast[b.Voter] = append(votesCast[b.Voter], game.CastVote{Day: d.Day, Target: b.Target, Reason: b.Reason})
				votesReceived[b.Target] = append(votesReceived[b.Target], game.ReceivedVote{Day: d.Day, From: b.Voter})
			}
			if elim := d.Resolution.Eliminated; elim != nil {
				dayElimCount++
				eliminatedOn[elim.PlayerID] = d.Day
				if elim.Role == game.RoleWerewolf {
					wolvesElimDays = append(wolvesElimDays, d.Day)
				} else {
					misElims = append(misElims, MisElim{Day: d.Day, PlayerID: elim.PlayerID, Role: elim.Role})
				}
			}
		case game.PhaseNight:
			n := ph.Night
			res := n.Resolution
			if res.Kill.Success {
				eliminatedOn[res.Kill.Target] = n.Night
			}
			if det := res.DetectiveResult; det != nil {
				inspections[det.Detective] = append(inspections[det.Detective], game.Inspection{
					Night: n.Night, Target: det.Target, IsWerewolf: det.IsWerewolf,
				})
			}
			if doc := res.DoctorProtect; doc != nil {
				protections[doc.Doctor] = append(protections[doc.Doctor], game.Protection{
					Night: n.Night, Target: doc.Target, Saved: doc.Saved,
				})
			}
		}
	}

	roleStats := make(map[game.Role]*RoleSummary)
	for _, p := range rec.Players {
		align := p.Role.Alignment()
		won := align == winning
		rs := roleStats[p.Role]
		if rs == nil {
			rs = &RoleSummary{}
			roleStats[p.Role] = rs
		}
		rs.GamesPlayed++
		if won {
			rs.Wins++
		} else {
			rs.Losses++
		}
		summary := AgentSummary{
			Alias:         p.Alias,
			Role:          p.Role,
			Alignment:     align,
			Won:           won,
			DaysSurvived:  daysSurvived[p.ID],
			VotesCast:     votesCast[p.ID],
			VotesReceived: votesReceived[p.ID],
			Inspections:   inspections[p.ID],
			Protections:   protections[p.ID],
		}
		if day, ok := eliminatedOn[p.ID]; ok {
			d := day
			summary.EliminatedOnDay = &d
		}
		rep.PerAgent[p.ID] = summary
	}
	for role, rs := range roleStats {
		if rs.GamesPlayed > 0 {
			rs.WinRate = float64(rs.Wins) / float64(rs.GamesPlayed)
		}
		rep.PerRole[role] = *rs
	}

	misRate := 0.0
	if dayElimCount > 0 {
		misRate = float64(len(misElims)) / float64(dayElimCount)
	}
	rep.Summary = GameSummary{
		TownWin:             winning == game.AlignmentTown,
		WolvesEliminatedDay: wolvesElimDays,
		MisEliminations:     misElims,
		MisElimRate:         misRate,
		TotalDays:           totalDays,
		WinningSide:         winning,
	}
}

func (e *Engine) buildDecisionQuality(rec *game.Record, rep *Report, votes []dayVotes, alignments map[string]game.Alignment) {
	type counts struct {
		onEnemy, onWolf, onTown int
	}
	perAgent := make(map[string]*counts)
	for _, p := range rec.Players {
		perAgent[p.ID] = &counts{}
	}

	var perDay []DayDecisionQuality
	for _, dv := range votes {
		townVotes := 0
		townOnWolves := 0
		wolvesVotedByTown := make(map[string]bool)
		for _, b := range dv.ballots {
			voterAlign := alignments[b.Voter]
			targetAlign := alignments[b.Target]
			c := perAgent[b.Voter]
			if c == nil {
				continue
			}
			if voterAlign == game.AlignmentTown {
				townVotes++
				if targetAlign == game.AlignmentWolves {
					townOnWolves++
					wolvesVotedByTown[b.Target] = true
				}
			}
			if targetAlign == game.AlignmentWolves {
				c.onWolf++
				if voterAlign == game.AlignmentTown {
					c.onEnemy++
				}
			} else {
				c.onTown++
				if voterAlign == game.AlignmentWolves {
					c.onEnemy++
				}
			}
		}

		precision := 0.0
		if townVotes > 0 {
			precision = float64(townOnWolves) / float64(townVotes)
		}
		wolvesAliveMorning := 0
		for _, id := range dv.eligible {
			if alignments[id] == game.AlignmentWolves {
				wolvesAliveMorning++
			}
		}
		recall := 0.0
		if wolvesAliveMorning > 0 {
			recall = float64(len(wolvesVotedByTown)) / float64(wolvesAliveMorning)
		}
		misElim := dv.eliminated != "" && alignments[dv.eliminated] != game.AlignmentWolves
		perDay = append(perDay, DayDecisionQuality{
			Day:            dv.day,
			TownPrecision:  precision,
			TownRecall:     recall,
			MisElimination: misElim,
		})
	}

	out := make(map[string]AgentDecisionQuality, len(perAgent))
	for _, p := range rec.Players {
		c := perAgent[p.ID]
		total := c.onWolf + c.onTown
		rate := 0.0
		if total > 0 {
			rate = float64(c.onEnemy) / float64(total)
		}
		q := AgentDecisionQuality{
			VotesOnEnemiesRate: rate,
			WolvesVoted:        c.onWolf,
			TownVoted:          c.onTown,
		}
		if p.Role == game.RoleWerewolf {
			bus := 0.0
			if total > 0 {
				bus = float64(c.onWolf) / float64(total)
			}
			q.BusRate = &bus
		}
		out[p.ID] = q
	}
	rep.DecisionQuality = DecisionQuality{PerAgent: out, PerDay: perDay}
}

// buildInfluence credits the swing vote, the earliest ballot after which the
// eventual winner holds a strict plurality never lost through the end of the
// round. It also counts ballots cast within the first half of the winner's
// wagon.
func (e *Engine) buildInfluence(rep *Report, votes []dayVotes) {
	perAgent := make(map[string]AgentInfluence, len(rep.PerAgent))
	for id := range rep.PerAgent {
		perAgent[id] = AgentInfluence{}
	}
	var events []SwingEvent

	for _, dv := range votes {
		if dv.eliminated == "" {
			continue
		}
		ballots := eligibleBallots(dv)

		var wagon []string
		for _, b := range ballots {
			if b.Target == dv.eliminated {
				wagon = append(wagon, b.Voter)
			}
		}
		half := len(wagon) / 2
		if half < 1 {
			half = 1
		}
		for i, voter := range wagon {
			if i < half {
				st := perAgent[voter]
				st.EarlyFinalWagonVotes++
				perAgent[voter] = st
			}
		}

		if idx := swingIndex(ballots, dv.eliminated); idx >= 0 {
			voter := ballots[idx].Voter
			events = append(events, SwingEvent{Day: dv.day, SwingVoter: voter, Target: dv.eliminated})
			st := perAgent[voter]
			st.SwingVotes++
			perAgent[voter] = st
		}
	}
	rep.Influence = Influence{PerAgent: perAgent, SwingEvents: events}
}

// eligibleBallots keeps only ballots the resolver would have tallied,
// mirroring the eligible-target set at resolution time.
func eligibleBallots(dv dayVotes) []game.Ballot {
	eligible := make(map[string]bool, len(dv.eligible))
	for _, id := range dv.eligible {
		eligible[id] = true
	}
	var out []game.Ballot
	for _, b := range dv.ballots {
		if eligible[b.Target] {
			out = append(out, b)
		}
	}
	return out
}

// swingIndex returns the earliest ballot index from which the winner strictly
// leads every other target in all subsequent prefixes, or -1.
func swingIndex(ballots []game.Ballot, winner string) int {
	if len(ballots) == 0 {
		return -1
	}
	counts := make(map[string]int)
	lastBroken := -1
	for i, b := range ballots {
		counts[b.Target]++
		strict := counts[winner] > 0
		for target, n := range counts {
			if target != winner && n >= counts[winner] {
				strict = false
				break
			}
		}
		if !strict {
			lastBroken = i
		}
	}
	swing := lastBroken + 1
	if swing >= len(ballots) {
		return -1
	}
	return swing
}
