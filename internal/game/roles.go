package game

type Role string

const (
	RoleWerewolf  Role = "werewolf"
	RoleDetective Role = "detective"
	RoleDoctor    Role = "doctor"
	RoleVillager  Role = "villager"
)

type Alignment string

const (
	AlignmentWolves Alignment = "wolves"
	AlignmentTown   Alignment = "town"
)

// Alignment derives the team axis from a role: werewolves hunt, everyone
// else is town regardless of special powers.
func (r Role) Alignment() Alignment {
	if r == RoleWerewolf {
		return AlignmentWolves
	}
	return AlignmentTown
}

func (r Role) Valid() bool {
	switch r {
	case RoleWerewolf, RoleDetective, RoleDoctor, RoleVillager:
		return true
	}
	return false
}

// RolesForCount returns the fixed role list for an n-player game: two wolves
// from six players up (one below that), one detective, one doctor, villagers
// for the rest.
func RolesForCount(n int) []Role {
	if n < 4 {
		return nil
	}
	wolves := 1
	if n >= 6 {
		wolves = 2
	}
	roles := make([]Role, 0, n)
	for i := 0; i < wolves; i++ {
		roles = append(roles, RoleWerewolf)
	}
	roles = append(roles, RoleDetective, RoleDoctor)
	for len(roles) < n {
		roles = append(roles, RoleVillager)
	}
	return roles
}
