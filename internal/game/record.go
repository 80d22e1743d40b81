package game

import "time"

const SchemaVersion = "1.0"

type PhaseType string

const (
	PhaseNight PhaseType = "night"
	PhaseDay   PhaseType = "day"
)

type Cause string

const (
	CauseNightKill Cause = "night_kill"
	CauseVote      Cause = "vote"
)

type EventType string

const (
	EventNightStart    EventType = "night_start"
	EventNightKill     EventType = "night_kill"
	EventNoKill        EventType = "no_kill"
	EventDayStart      EventType = "day_start"
	EventElimination   EventType = "elimination"
	EventNoElimination EventType = "no_elimination"
)

// Event is one entry of the public history. Index is the night or day number
// the event belongs to.
type Event struct {
	Type      EventType      `json:"type"`
	Phase     PhaseType      `json:"phase"`
	Index     int            `json:"index"`
	PlayerID  string         `json:"player_id,omitempty"`
	Role      Role           `json:"role,omitempty"`
	Alignment Alignment      `json:"alignment,omitempty"`
	Cause     Cause          `json:"cause,omitempty"`
	SavedBy   string         `json:"saved_by,omitempty"`
	Tally     map[string]int `json:"tally,omitempty"`
}

// Elimination is one alive-to-dead transition with the role and alignment
// revealed at that moment.
type Elimination struct {
	PlayerID  string    `json:"player_id"`
	Role      Role      `json:"role"`
	Alignment Alignment `json:"alignment"`
	Cause     Cause     `json:"cause"`
	Phase     PhaseType `json:"phase"`
	Index     int       `json:"index"`
}

type CastVote struct {
	Day    int    `json:"day"`
	Target string `json:"target"`
	Reason string `json:"reason,omitempty"`
}

type ReceivedVote struct {
	Day  int    `json:"day"`
	From string `json:"from"`
}

type Inspection struct {
	Night      int    `json:"night"`
	Target     string `json:"target"`
	IsWerewolf bool   `json:"is_werewolf"`
}

type Protection struct {
	Night  int    `json:"night"`
	Target string `json:"target,omitempty"`
	Saved  bool   `json:"saved"`
}

// KillOutcome is the resolution of one night's kill attempt.
type KillOutcome struct {
	Target  string `json:"target,omitempty"`
	Success bool   `json:"success"`
	SavedBy string `json:"saved_by,omitempty"`
}

type WolfVote struct {
	Wolf   string `json:"wolf"`
	Target string `json:"target"`
}

type WolfDecision struct {
	Target    string     `json:"target,omitempty"`
	Votes     []WolfVote `json:"votes,omitempty"`
	Unanimous bool       `json:"unanimous"`
}

type DetectiveResult struct {
	Detective  string `json:"detective"`
	Target     string `json:"target"`
	IsWerewolf bool   `json:"is_werewolf"`
}

type DoctorProtect struct {
	Doctor string `json:"doctor"`
	Target string `json:"target,omitempty"`
	Saved  bool   `json:"saved"`
}

type NightResolution struct {
	WolfDecision    WolfDecision     `json:"wolf_team_decision"`
	DetectiveResult *DetectiveResult `json:"detective_result,omitempty"`
	DoctorProtect   *DoctorProtect   `json:"doctor_protect,omitempty"`
	Kill            KillOutcome      `json:"night_kill"`
}

type NightRecord struct {
	Night      int             `json:"night_number"`
	Alive      []string        `json:"alive_players"`
	Actions    []NightAction   `json:"actions,omitempty"`
	Resolution NightResolution `json:"resolution"`
}

// DiscussionTurn is one ordered public speech. Text is opaque to the engine;
// Intent is an optional privately declared target carried by the submission
// and never shown to other players.
type DiscussionTurn struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
	Intent  string `json:"intent,omitempty"`
}

type Ballot struct {
	Voter  string `json:"voter"`
	Target string `json:"target"`
	Reason string `json:"reason,omitempty"`
}

type EliminatedPayload struct {
	PlayerID  string    `json:"player_id"`
	Role      Role      `json:"role_revealed"`
	Alignment Alignment `json:"alignment"`
	Day       int       `json:"day_number"`
}

type VoteResolution struct {
	Tally      map[string]int     `json:"tally"`
	Eliminated *EliminatedPayload `json:"eliminated,omitempty"`
	Runoff     []string           `json:"runoff,omitempty"`
}

type DayRecord struct {
	Day        int              `json:"day_number"`
	Alive      []string         `json:"alive_players"`
	Discussion []DiscussionTurn `json:"discussion"`
	Ballots    []Ballot         `json:"ballots"`
	Resolution VoteResolution   `json:"resolution"`
}

// PhaseRecord is an immutable snapshot of one resolved phase; exactly one of
// Night or Day is set, matching Type.
type PhaseRecord struct {
	Type  PhaseType    `json:"phase_type"`
	Night *NightRecord `json:"night,omitempty"`
	Day   *DayRecord   `json:"day,omitempty"`
}

// PlayerInfo is the roster entry of a finished record. Identity is the stable
// cross-game key (the agent implementation), distinct from the per-game ID.
type PlayerInfo struct {
	ID        string    `json:"id"`
	Alias     string    `json:"alias,omitempty"`
	Identity  string    `json:"identity,omitempty"`
	Role      Role      `json:"role"`
	Alignment Alignment `json:"alignment"`
	Alive     bool      `json:"alive"`
}

type FinalResult struct {
	WinningSide      Alignment     `json:"winning_side"`
	Reason           string        `json:"reason"`
	Survivors        []string      `json:"survivors"`
	EliminationOrder []Elimination `json:"elimination_order"`
}

// Record is a finished game: the sole input to the metrics engine and the
// rating system. Produced once by the loop and never mutated.
type Record struct {
	SchemaVersion  string          `json:"schema_version"`
	GameID         string          `json:"game_id"`
	CreatedAt      time.Time       `json:"created_at_utc"`
	Seed           int64           `json:"seed"`
	Players        []PlayerInfo    `json:"players"`
	RoleAssignment map[string]Role `json:"role_assignment"`
	PhaseSequence  []string        `json:"phase_sequence"`
	Phases         []PhaseRecord   `json:"phases"`
	FinalResult    FinalResult     `json:"final_result"`
}
