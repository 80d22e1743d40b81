package ws

import "werewolf-arena/internal/game"

type PhaseMessage struct {
	Type   string           `json:"type"`
	GameID string           `json:"game_id"`
	Phase  game.PhaseRecord `json:"phase"`
}

type ResultMessage struct {
	Type   string           `json:"type"`
	GameID string           `json:"game_id"`
	Result game.FinalResult `json:"result"`
}
