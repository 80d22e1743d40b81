package game

// Player is one roster entry. Role and Alignment are fixed at assignment;
// Alive flips true to false at most once.
type Player struct {
	ID        string
	Alias     string
	Identity  string
	Role      Role
	Alignment Alignment
	Alive     bool
}

// State owns everything the resolvers mutate: the roster, the phase counters,
// the append-only public history and the per-player logs. All writes go
// through its methods.
type State struct {
	players []*Player
	byID    map[string]*Player

	nightNumber int
	dayNumber   int

	history       []Event
	votesCast     map[string][]CastVote
	votesReceived map[string][]ReceivedVote
	inspections   map[string][]Inspection
	protections   map[string][]Protection
	eliminations  []Elimination

	saveConsumed map[string]bool
}

// NewState validates the roster and returns a fresh state. Every player needs
// a unique id and a known role; alignment is derived, never supplied.
func NewState(players []Player) (*State, error) {
	if len(players) == 0 {
		return nil, invariant(PhaseNight, 0, "empty roster")
	}
	s := &State{
		byID:          make(map[string]*Player, len(players)),
		nightNumber:   1,
		dayNumber:     1,
		votesCast:     make(map[string][]CastVote, len(players)),
		votesReceived: make(map[string][]ReceivedVote, len(players)),
		inspections:   make(map[string][]Inspection),
		protections:   make(map[string][]Protection),
		saveConsumed:  make(map[string]bool),
	}
	for i := range players {
		p := players[i]
		if p.ID == "" {
			return nil, invariant(PhaseNight, 0, "player with empty id")
		}
		if !p.Role.Valid() {
			return nil, invariant(PhaseNight, 0, "player %s has unknown role %q", p.ID, p.Role)
		}
		if _, dup := s.byID[p.ID]; dup {
			return nil, invariant(PhaseNight, 0, "duplicate player id %s", p.ID)
		}
		p.Alignment = p.Role.Alignment()
		p.Alive = true
		cp := p
		s.players = append(s.players, &cp)
		s.byID[p.ID] = &cp
	}
	return s, nil
}

func (s *State) NightNumber() int { return s.nightNumber }
func (s *State) DayNumber() int   { return s.dayNumber }

func (s *State) Player(id string) (Player, bool) {
	p, ok := s.byID[id]
	if !ok {
		return Player{}, false
	}
	return *p, true
}

// Roster returns the players in their fixed iteration order.
func (s *State) Roster() []Player {
	out := make([]Player, 0, len(s.players))
	for _, p := range s.players {
		out = append(out, *p)
	}
	return out
}

func (s *State) IsAlive(id string) bool {
	p, ok := s.byID[id]
	return ok && p.Alive
}

func (s *State) Living() []string {
	var out []string
	for _, p := range s.players {
		if p.Alive {
			out = append(out, p.ID)
		}
	}
	return out
}

// Wolves returns every werewolf in roster order, dead or alive.
func (s *State) Wolves() []string {
	var out []string
	for _, p := range s.players {
		if p.Role == RoleWerewolf {
			out = append(out, p.ID)
		}
	}
	return out
}

func (s *State) RoleOf(id string) Role {
	if p, ok := s.byID[id]; ok {
		return p.Role
	}
	return ""
}

func (s *State) AlignmentOf(id string) Alignment {
	if p, ok := s.byID[id]; ok {
		return p.Alignment
	}
	return ""
}

func (s *State) WolvesRemaining() int {
	n := 0
	for _, p := range s.players {
		if p.Alive && p.Alignment == AlignmentWolves {
			n++
		}
	}
	return n
}

func (s *State) TownRemaining() int {
	n := 0
	for _, p := range s.players {
		if p.Alive && p.Alignment == AlignmentTown {
			n++
		}
	}
	return n
}

// IsTerminal holds when the wolves are gone or hold numeric parity with the
// living town.
func (s *State) IsTerminal() bool {
	w := s.WolvesRemaining()
	return w == 0 || w >= s.TownRemaining()
}

// Winner returns the winning alignment, or "" while the game is ongoing.
func (s *State) Winner() Alignment {
	if s.WolvesRemaining() == 0 {
		return AlignmentTown
	}
	if s.WolvesRemaining() >= s.TownRemaining() {
		return AlignmentWolves
	}
	return ""
}

func (s *State) History() []Event {
	return append([]Event(nil), s.history...)
}

func (s *State) Eliminations() []Elimination {
	return append([]Elimination(nil), s.eliminations...)
}

func (s *State) VotesCast(id string) []CastVote {
	return append([]CastVote(nil), s.votesCast[id]...)
}

func (s *State) VotesReceived(id string) []ReceivedVote {
	return append([]ReceivedVote(nil), s.votesReceived[id]...)
}

func (s *State) Inspections(id string) []Inspection {
	return append([]Inspection(nil), s.inspections[id]...)
}

func (s *State) Protections(id string) []Protection {
	return append([]Protection(nil), s.protections[id]...)
}

// SaveConsumed reports whether the doctor's single-use save is spent. The
// flag never resets.
func (s *State) SaveConsumed(doctorID string) bool {
	return s.saveConsumed[doctorID]
}

func (s *State) consumeSave(doctorID string) {
	s.saveConsumed[doctorID] = true
}

func (s *State) appendEvent(ev Event) {
	s.history = append(s.history, ev)
}

func (s *State) recordVote(voter, target string, day int, reason string) error {
	if _, ok := s.byID[voter]; !ok {
		return invariant(PhaseDay, day, "vote from unknown player %s", voter)
	}
	if _, ok := s.byID[target]; !ok {
		return invariant(PhaseDay, day, "vote targeting unknown player %s", target)
	}
	s.votesCast[voter] = append(s.votesCast[voter], CastVote{Day: day, Target: target, Reason: reason})
	s.votesReceived[target] = append(s.votesReceived[target], ReceivedVote{Day: day, From: voter})
	return nil
}

func (s *State) recordInspection(detective, target string, night int, isWolf bool) error {
	if _, ok := s.byID[detective]; !ok {
		return invariant(PhaseNight, night, "inspection by unknown player %s", detective)
	}
	if _, ok := s.byID[target]; !ok {
		return invariant(PhaseNight, night, "inspection of unknown player %s", target)
	}
	s.inspections[detective] = append(s.inspections[detective], Inspection{Night: night, Target: target, IsWerewolf: isWolf})
	return nil
}

func (s *State) recordProtection(doctor, target string, night int, saved bool) error {
	if _, ok := s.byID[doctor]; !ok {
		return invariant(PhaseNight, night, "protection by unknown player %s", doctor)
	}
	s.protections[doctor] = append(s.protections[doctor], Protection{Night: night, Target: target, Saved: saved})
	return nil
}

// eliminate flips one alive flag and appends the matching public event and
// elimination entry. A second elimination of the same player, or one naming
// an unknown player, is a contract violation.
func (s *State) eliminate(id string, cause Cause, phase PhaseType, index int) error {
	p, ok := s.byID[id]
	if !ok {
		return invariant(phase, index, "elimination of unknown player %s", id)
	}
	if !p.Alive {
		return invariant(phase, index, "elimination of already dead player %s", id)
	}
	p.Alive = false
	elim := Elimination{
		PlayerID:  id,
		Role:      p.Role,
		Alignment: p.Alignment,
		Cause:     cause,
		Phase:     phase,
		Index:     index,
	}
	s.eliminations = append(s.eliminations, elim)
	s.appendEvent(Event{
		Type:      EventElimination,
		Phase:     phase,
		Index:     index,
		PlayerID:  id,
		Role:      p.Role,
		Alignment: p.Alignment,
		Cause:     cause,
	})
	return nil
}
