package game

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Observer receives each phase record as soon as it is resolved. Used for
// live spectating; the loop never depends on it.
type Observer interface {
	PhaseResolved(gameID string, rec PhaseRecord)
}

// Loop alternates night and day resolution over a single State until a
// terminal condition holds, then assembles the finished Record. One Loop owns
// one State for the duration of one game; concurrent games use independent
// instances.
type Loop struct {
	GameID   string
	Seed     int64
	State    *State
	Source   ActionSource
	Observer Observer

	// Rounds is the number of discussion passes before each vote. Values
	// below 1 are treated as 1.
	Rounds int
}

func NewLoop(gameID string, seed int64, st *State, src ActionSource) *Loop {
	return &Loop{GameID: gameID, Seed: seed, State: st, Source: src}
}

// Run plays the game to completion. The terminal condition is re-checked
// immediately after night resolution so a game decided at night never runs an
// extra day. Input anomalies degrade to abstentions inside the resolvers; an
// error here is an invariant violation and the game is aborted.
func (l *Loop) Run(ctx context.Context) (*Record, error) {
	log.Info().Str("game_id", l.GameID).Int("players", len(l.State.Roster())).Msg("game starting")

	var phases []PhaseRecord
	var sequence []string

	for !l.State.IsTerminal() {
		nightRec, err := l.runNight(ctx)
		if err != nil {
			return nil, err
		}
		phases = append(phases, PhaseRecord{Type: PhaseNight, Night: nightRec})
		sequence = append(sequence, fmt.Sprintf("night_%d", nightRec.Night))
		l.emit(phases[len(phases)-1])

		if l.State.IsTerminal() {
			break
		}

		dayRec, err := l.runDay(ctx)
		if err != nil {
			return nil, err
		}
		phases = append(phases, PhaseRecord{Type: PhaseDay, Day: dayRec})
		sequence = append(sequence, fmt.Sprintf("day_%d", dayRec.Day))
		l.emit(phases[len(phases)-1])
	}

	winner := l.State.Winner()
	reason := "wolves reached parity with town"
	if winner == AlignmentTown {
		reason = "all wolves eliminated"
	}
	log.Info().Str("game_id", l.GameID).Str("winner", string(winner)).Msg("game over")

	roster := l.State.Roster()
	players := make([]PlayerInfo, 0, len(roster))
	roles := make(map[string]Role, len(roster))
	for _, p := range roster {
		players = append(players, PlayerInfo{
			ID:        p.ID,
			Alias:     p.Alias,
			Identity:  p.Identity,
			Role:      p.Role,
			Alignment: p.Alignment,
			Alive:     p.Alive,
		})
		roles[p.ID] = p.Role
	}

	return &Record{
		SchemaVersion:  SchemaVersion,
		GameID:         l.GameID,
		CreatedAt:      time.Now().UTC(),
		Seed:           l.Seed,
		Players:        players,
		RoleAssignment: roles,
		PhaseSequence:  sequence,
		Phases:         phases,
		FinalResult: FinalResult{
			WinningSide:      winner,
			Reason:           reason,
			Survivors:        l.State.Living(),
			EliminationOrder: l.State.Eliminations(),
		},
	}, nil
}

// runNight gathers actions in two stages: everyone but the doctor first, then
// the doctor once the wolves' target is known, since the save decision binds
// to the night's attacked player.
func (l *Loop) runNight(ctx context.Context) (*NightRecord, error) {
	night := l.State.NightNumber()
	alive := l.State.Living()

	var reqs []NightRequest
	var doctors []string
	for _, id := range alive {
		switch l.State.RoleOf(id) {
		case RoleWerewolf:
			reqs = append(reqs, NightRequest{
				PlayerID: id,
				Role:     RoleWerewolf,
				Night:    night,
				Options:  l.livingExcept(AlignmentWolves),
			})
		case RoleDetective:
			reqs = append(reqs, NightRequest{
				PlayerID: id,
				Role:     RoleDetective,
				Night:    night,
				Options:  excluding(alive, id),
			})
		case RoleDoctor:
			doctors = append(doctors, id)
		default:
			reqs = append(reqs, NightRequest{PlayerID: id, Role: RoleVillager, Night: night})
		}
	}

	actions := l.Source.NightActions(ctx, reqs)
	killTarget := WolfKillTarget(l.State, actions)

	if len(doctors) > 0 {
		var docReqs []NightRequest
		for _, id := range doctors {
			docReqs = append(docReqs, NightRequest{
				PlayerID:       id,
				Role:           RoleDoctor,
				Night:          night,
				AttackedPlayer: killTarget,
				SaveAvailable:  !l.State.SaveConsumed(id),
			})
		}
		for id, a := range l.Source.NightActions(ctx, docReqs) {
			actions[id] = a
		}
	}

	return ResolveNight(l.State, actions)
}

func (l *Loop) runDay(ctx context.Context) (*DayRecord, error) {
	day := l.State.DayNumber()
	alive := l.State.Living()
	history := l.State.History()

	rounds := l.Rounds
	if rounds < 1 {
		rounds = 1
	}
	var turns []DiscussionTurn
	for r := 0; r < rounds; r++ {
		var discReqs []DiscussionRequest
		for _, id := range alive {
			discReqs = append(discReqs, DiscussionRequest{PlayerID: id, Day: day, Alive: alive, History: history})
		}
		turns = append(turns, l.Source.DiscussionTurns(ctx, discReqs)...)
	}

	var voteReqs []VoteRequest
	for _, id := range alive {
		voteReqs = append(voteReqs, VoteRequest{PlayerID: id, Day: day, Options: alive, History: history})
	}
	ballots := l.Source.Votes(ctx, voteReqs)

	return ResolveDay(l.State, turns, ballots)
}

func (l *Loop) emit(rec PhaseRecord) {
	if l.Observer != nil {
		l.Observer.PhaseResolved(l.GameID, rec)
	}
}

func (l *Loop) livingExcept(a Alignment) []string {
	var out []string
	for _, id := range l.State.Living() {
		if l.State.AlignmentOf(id) != a {
			out = append(out, id)
		}
	}
	return out
}

func excluding(ids []string, drop string) []string {
	var out []string
	for _, id := range ids {
		if id != drop {
			out = append(out, id)
		}
	}
	return out
}
