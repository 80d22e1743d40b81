package game

import "context"

// NightAction is a role-typed submission for one night. Wolves and the
// detective fill Target; the doctor fills Decision (the target is implied as
// the night's attacked player). Intent is an optional privately declared
// plan, recorded for post-game analytics only. A zero-value action is an
// abstention.
type NightAction struct {
	PlayerID string `json:"player_id"`
	Target   string `json:"target,omitempty"`
	Decision bool   `json:"decision,omitempty"`
	Intent   string `json:"intent,omitempty"`
}

// NightRequest is what the engine hands the collaborator when asking one
// player for a night action. Options are the legal targets for the role;
// AttackedPlayer and SaveAvailable are set for the doctor only.
type NightRequest struct {
	PlayerID       string   `json:"player_id"`
	Role           Role     `json:"role"`
	Night          int      `json:"night_number"`
	Options        []string `json:"options,omitempty"`
	AttackedPlayer string   `json:"attacked_player,omitempty"`
	SaveAvailable  bool     `json:"save_available,omitempty"`
}

type DiscussionRequest struct {
	PlayerID string   `json:"player_id"`
	Day      int      `json:"day_number"`
	Alive    []string `json:"alive_players"`
	History  []Event  `json:"public_history"`
}

type VoteRequest struct {
	PlayerID string   `json:"player_id"`
	Day      int      `json:"day_number"`
	Options  []string `json:"options"`
	History  []Event  `json:"public_history"`
}

// ActionSource gathers submissions from the external agent processes. Each
// call may fan out concurrently but must join before returning; a player
// whose submission failed or timed out is simply absent from the result, and
// the resolvers treat absence as an abstention. Implementations never block
// the phase on a single slow player.
type ActionSource interface {
	NightActions(ctx context.Context, reqs []NightRequest) map[string]NightAction
	DiscussionTurns(ctx context.Context, reqs []DiscussionRequest) []DiscussionTurn
	Votes(ctx context.Context, reqs []VoteRequest) []Ballot
}
