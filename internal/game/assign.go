package game

import (
	"fmt"
	"math/rand"
)

// AssignRoles deals the fixed role list for the roster size, shuffled
// deterministically from the seed so a match is reproducible from its record.
// Incoming Role fields are ignored.
func AssignRoles(players []Player, seed int64) ([]Player, error) {
	roles := RolesForCount(len(players))
	if roles == nil {
		return nil, fmt.Errorf("need at least 4 players, got %d", len(players))
	}
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(roles), func(i, j int) {
		roles[i], roles[j] = roles[j], roles[i]
	})
	out := make([]Player, len(players))
	for i, p := range players {
		p.Role = roles[i]
		p.Alignment = roles[i].Alignment()
		p.Alive = true
		out[i] = p
	}
	return out, nil
}
