package metrics

import "werewolf-arena/internal/game"

// Report is the full post-game analysis of one finished record. Per-agent
// maps always contain every roster member, including agents that never spoke
// or voted. Day-derived sections are present but empty for games that ended
// before their first day.
type Report struct {
	GameID            string                     `json:"game_id"`
	PerAgent          map[string]AgentSummary    `json:"per_agent"`
	PerRole           map[game.Role]RoleSummary  `json:"per_role"`
	Summary           GameSummary                `json:"summary"`
	DecisionQuality   DecisionQuality            `json:"decision_quality"`
	Influence         Influence                  `json:"influence"`
	Persuasion        Persuasion                 `json:"persuasion"`
	Resistance        map[string]ResistanceStats `json:"resistance"`
	EarlySignals      *EarlySignals              `json:"early_signals,omitempty"`
	StrategyAlignment map[string]StrategyStats   `json:"strategy_alignment"`
	Coordination      Coordination               `json:"coordination"`
	Counterfactual    Counterfactual             `json:"counterfactual_impact"`
	Style             map[string]StyleStats      `json:"style"`
	Centrality        map[string]CentralityStats `json:"centrality"`
}

type AgentSummary struct {
	Alias           string              `json:"alias,omitempty"`
	Role            game.Role           `json:"role"`
	Alignment       game.Alignment      `json:"alignment"`
	Won             bool                `json:"won"`
	DaysSurvived    int                 `json:"days_survived"`
	VotesCast       []game.CastVote     `json:"votes_cast"`
	VotesReceived   []game.ReceivedVote `json:"received_votes"`
	EliminatedOnDay *int                `json:"eliminated_on_day,omitempty"`
	Inspections     []game.Inspection   `json:"inspections,omitempty"`
	Protections     []game.Protection   `json:"protections,omitempty"`
}

type RoleSummary struct {
	GamesPlayed int     `json:"games_played"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	WinRate     float64 `json:"win_rate"`
}

type GameSummary struct {
	TownWin             bool           `json:"town_win"`
	WolvesEliminatedDay []int          `json:"wolves_eliminated_days"`
	MisEliminations     []MisElim      `json:"mis_eliminations"`
	MisElimRate         float64        `json:"mis_elim_rate"`
	TotalDays           int            `json:"total_days"`
	WinningSide         game.Alignment `json:"winning_side"`
}

type MisElim struct {
	Day      int       `json:"day"`
	PlayerID string    `json:"player_id"`
	Role     game.Role `json:"role"`
}

type DecisionQuality struct {
	PerAgent map[string]AgentDecisionQuality `json:"per_agent"`
	PerDay   []DayDecisionQuality            `json:"per_day"`
}

type AgentDecisionQuality struct {
	VotesOnEnemiesRate float64  `json:"votes_on_enemies_rate"`
	WolvesVoted        int      `json:"wolves_voted"`
	TownVoted          int      `json:"town_voted"`
	BusRate            *float64 `json:"bus_rate,omitempty"`
}

type DayDecisionQuality struct {
	Day            int     `json:"day_number"`
	TownPrecision  float64 `json:"town_precision"`
	TownRecall     float64 `json:"town_recall"`
	MisElimination bool    `json:"mis_elimination"`
}

type Influence struct {
	PerAgent    map[string]AgentInfluence `json:"per_agent"`
	SwingEvents []SwingEvent              `json:"swing_events"`
}

type AgentInfluence struct {
	SwingVotes           int `json:"swing_votes"`
	EarlyFinalWagonVotes int `json:"early_final_wagon_votes"`
}

type SwingEvent struct {
	Day        int    `json:"day_number"`
	SwingVoter string `json:"swing_voter"`
	Target     string `json:"target"`
}

type Persuasion struct {
	PerAgent     map[string]PersuasionStats `json:"per_agent"`
	Attributions []SwingAttribution         `json:"attributions"`
}

type PersuasionStats struct {
	SwingsCaused    int     `json:"swings_caused"`
	SpeechesCount   int     `json:"speeches_count"`
	SwingsPerSpeech float64 `json:"swings_per_speech"`
}

type SwingAttribution struct {
	Day     int    `json:"day"`
	Voter   string `json:"voter"`
	Target  string `json:"target"`
	Speaker string `json:"speaker"`
}

type ResistanceStats struct {
	Exposures      int     `json:"exposures"`
	Resisted       int     `json:"resisted"`
	ResistanceRate float64 `json:"resistance_rate"`
}

type EarlySignals struct {
	Day1WolfElim         bool    `json:"day1_wolf_elim"`
	Day1Precision        float64 `json:"day1_precision"`
	Day1Recall           float64 `json:"day1_recall"`
	TownMentionsOfWolves int     `json:"town_mentions_of_wolves"`
	TotalMentionsDay1    int     `json:"total_mentions_day1"`
}

type StrategyStats struct {
	PrivateToPublic *float64 `json:"private_to_public_alignment,omitempty"`
	PrivateToVote   *float64 `json:"private_to_vote_alignment,omitempty"`
	DeceptionDelta  *float64 `json:"deception_delta,omitempty"`
}

type Coordination struct {
	WolfArgumentSimilarity  *float64 `json:"wolf_argument_similarity,omitempty"`
	SequentialSupportEvents int      `json:"sequential_support_events"`
}

type Counterfactual struct {
	PivotalVotes  []PivotalVote  `json:"pivotal_votes"`
	PerAgentCount map[string]int `json:"per_agent_pivotal_count"`
}

type PivotalVote struct {
	Day    int    `json:"day_number"`
	Voter  string `json:"voter"`
	Target string `json:"target"`
}

type StyleStats struct {
	HedgingRate   float64 `json:"hedging_rate"`
	CertaintyRate float64 `json:"certainty_rate"`
}

type CentralityStats struct {
	InDegree  int `json:"in_degree"`
	OutDegree int `json:"out_degree"`
}
