package game

// ResolveNight applies one night's collected submissions to the state and
// returns the immutable phase record. Wolves resolve first (their chosen
// target is what the doctor's decision binds to), then the detective's
// private inspection, then the kill itself. Malformed or missing submissions
// are abstentions; the night counter increments exactly once per call no
// matter the outcome.
func ResolveNight(s *State, actions map[string]NightAction) (*NightRecord, error) {
	night := s.nightNumber
	alive := s.Living()
	s.appendEvent(Event{Type: EventNightStart, Phase: PhaseNight, Index: night})

	// Wolf kill decision: first valid vote in wolf roster order.
	var wolfVotes []WolfVote
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
		wolfVotes = append(wolfVotes, WolfVote{Wolf: wolfID, Target: a.Target})
	}
	killTarget := WolfKillTarget(s, actions)
	unanimous := true
	for _, v := range wolfVotes {
		if v.Target != killTarget {
			unanimous = false
		}
	}

	// Detective inspection: private, logged, no further state effect.
	var detResult *DetectiveResult
	for _, id := range alive {
		if s.RoleOf(id) != RoleDetective {
			continue
		}
		a, ok := actions[id]
		if !ok || a.Target == "" {
			break
		}
		if _, known := s.byID[a.Target]; !known {
			break
		}
		isWolf := s.RoleOf(a.Target) == RoleWerewolf
		if err := s.recordInspection(id, a.Target, night, isWolf); err != nil {
			return nil, err
		}
		detResult = &DetectiveResult{Detective: id, Target: a.Target, IsWerewolf: isWolf}
		break
	}

	// Doctor save: an explicit affirmative decision, only meaningful while a
	// wolf target exists and the single-use save is still unspent. Abstention
	// is not protection.
	var doctorID, protectTarget string
	for _, id := range alive {
		if s.RoleOf(id) != RoleDoctor {
			continue
		}
		a, ok := actions[id]
		if ok && a.Decision && killTarget != "" && !s.SaveConsumed(id) {
			doctorID = id
			protectTarget = killTarget
			s.consumeSave(id)
		}
		break
	}

	kill := ResolveNightKill(killTarget, protectTarget, doctorID)

	var docProtect *DoctorProtect
	if doctorID != "" {
		saved := kill.SavedBy == doctorID
		if err := s.recordProtection(doctorID, protectTarget, night, saved); err != nil {
			return nil, err
		}
		docProtect = &DoctorProtect{Doctor: doctorID, Target: protectTarget, Saved: saved}
	}

	if kill.Success {
		if err := s.eliminate(kill.Target, CauseNightKill, PhaseNight, night); err != nil {
			return nil, err
		}
		s.appendEvent(Event{Type: EventNightKill, Phase: PhaseNight, Index: night, PlayerID: kill.Target})
	} else {
		s.appendEvent(Event{Type: EventNoKill, Phase: PhaseNight, Index: night, PlayerID: kill.Target, SavedBy: kill.SavedBy})
	}

	s.nightNumber++

	var observed []NightAction
	for _, p := range s.players {
		if a, ok := actions[p.ID]; ok {
			a.PlayerID = p.ID
			observed = append(observed, a)
		}
	}

	return &NightRecord{
		Night:   night,
		Alive:   alive,
		Actions: observed,
		Resolution: NightResolution{
			WolfDecision:    WolfDecision{Target: killTarget, Votes: wolfVotes, Unanimous: unanimous},
			DetectiveResult: detResult,
			DoctorProtect:   docProtect,
			Kill:            kill,
		},
	}, nil
}
