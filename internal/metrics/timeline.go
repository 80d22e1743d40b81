package metrics

import "werewolf-arena/internal/game"

// message is one discussion turn flattened out of the phase list, in global
// order.
type message struct {
	day     int
	order   int
	speaker string
	text    string
	intent  string
}

func extractTimeline(rec *game.Record) []message {
	var out []message
	for _, ph := range rec.Phases {
		if ph.Type != game.PhaseDay || ph.Day == nil {
			continue
		}
		for i, turn := range ph.Day.Discussion {
			out = append(out, message{
				day:     ph.Day.Day,
				order:   i,
				speaker: turn.Speaker,
				text:    turn.Text,
				intent:  turn.Intent,
			})
		}
	}
	return out
}

// dayVotes is the ordered ballot list of one day together with the
// eligible-target set and elimination outcome at resolution time.
type dayVotes struct {
	day        int
	ballots    []game.Ballot
	eligible   []string
	eliminated string
}

func extractDayVotes(rec *game.Record) []dayVotes {
	var out []dayVotes
	for _, ph := range rec.Phases {
		if ph.Type != game.PhaseDay || ph.Day == nil {
			continue
		}
		dv := dayVotes{
			day:      ph.Day.Day,
			ballots:  ph.Day.Ballots,
			eligible: ph.Day.Alive,
		}
		if e := ph.Day.Resolution.Eliminated; e != nil {
			dv.eliminated = e.PlayerID
		}
		out = append(out, dv)
	}
	return out
}

// nightIntents collects privately declared targets from night submissions.
func nightIntents(rec *game.Record) map[string][]string {
	out := make(map[string][]string)
	for _, ph := range rec.Phases {
		if ph.Type != game.PhaseNight || ph.Night == nil {
			continue
		}
		for _, a := range ph.Night.Actions {
			if a.Intent != "" {
				out[a.PlayerID] = append(out[a.PlayerID], a.Intent)
			}
		}
	}
	return out
}
