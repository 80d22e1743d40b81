package game

import (
	"errors"
	"testing"
)

func TestNewStateRejectsBadRosters(t *testing.T) {
	if _, err := NewState(nil); err == nil {
		t.Fatal("empty roster must be rejected")
	}
	if _, err := NewState([]Player{{ID: "p1", Role: "jester"}}); err == nil {
		t.Fatal("unknown role must be rejected")
	}
	if _, err := NewState([]Player{{ID: "p1", Role: RoleVillager}, {ID: "p1", Role: RoleDoctor}}); err == nil {
		t.Fatal("duplicate id must be rejected")
	}
}

func TestAlignmentDerivedFromRole(t *testing.T) {
	st := mustState(t, []Player{
		{ID: "w", Role: RoleWerewolf, Alignment: AlignmentTown}, // supplied alignment ignored
		{ID: "d", Role: RoleDetective},
	})
	if st.AlignmentOf("w") != AlignmentWolves {
		t.Fatalf("werewolf must align with wolves, got %s", st.AlignmentOf("w"))
	}
	if st.AlignmentOf("d") != AlignmentTown {
		t.Fatalf("detective must align with town, got %s", st.AlignmentOf("d"))
	}
}

func TestEliminateFlipsAliveOnce(t *testing.T) {
	st := mustState(t, []Player{
		{ID: "w", Role: RoleWerewolf},
		{ID: "v", Role: RoleVillager},
	})
	if err := st.eliminate("v", CauseVote, PhaseDay, 1); err != nil {
		t.Fatalf("eliminate: %v", err)
	}
	if st.IsAlive("v") {
		t.Fatal("eliminated player still alive")
	}
	elims := st.Eliminations()
	if len(elims) != 1 || elims[0].Role != RoleVillager || elims[0].Alignment != AlignmentTown {
		t.Fatalf("unexpected elimination entry: %+v", elims)
	}

	var inv *InvariantError
	if err := st.eliminate("v", CauseVote, PhaseDay, 2); !errors.As(err, &inv) {
		t.Fatalf("second elimination must be an invariant violation, got %v", err)
	}
	if err := st.eliminate("ghost", CauseVote, PhaseDay, 2); !errors.As(err, &inv) {
		t.Fatalf("unknown player must be an invariant violation, got %v", err)
	} else if inv.Phase != PhaseDay || inv.Index != 2 {
		t.Fatalf("invariant error must name the failing phase, got %+v", inv)
	}
}

func TestTerminalAndWinner(t *testing.T) {
	st := mustState(t, []Player{
		{ID: "w1", Role: RoleWerewolf},
		{ID: "v1", Role: RoleVillager},
		{ID: "v2", Role: RoleVillager},
		{ID: "v3", Role: RoleVillager},
	})
	if st.IsTerminal() {
		t.Fatal("1 wolf vs 3 town is not terminal")
	}
	if w := st.Winner(); w != "" {
		t.Fatalf("ongoing game has no winner, got %q", w)
	}

	// Parity: wolves win.
	if err := st.eliminate("v1", CauseNightKill, PhaseNight, 1); err != nil {
		t.Fatal(err)
	}
	if err := st.eliminate("v2", CauseVote, PhaseDay, 1); err != nil {
		t.Fatal(err)
	}
	if !st.IsTerminal() || st.Winner() != AlignmentWolves {
		t.Fatalf("1v1 must be a wolf win, got %q", st.Winner())
	}
}

func TestWinnerTownWhenWolvesGone(t *testing.T) {
	st := mustState(t, []Player{
		{ID: "w1", Role: RoleWerewolf},
		{ID: "v1", Role: RoleVillager},
		{ID: "v2", Role: RoleVillager},
	})
	if err := st.eliminate("w1", CauseVote, PhaseDay, 1); err != nil {
		t.Fatal(err)
	}
	if st.Winner() != AlignmentTown {
		t.Fatalf("no wolves left must be a town win, got %q", st.Winner())
	}
}

func TestVoteLogsRequireKnownPlayers(t *testing.T) {
	st := mustState(t, []Player{
		{ID: "a", Role: RoleVillager},
		{ID: "b", Role: RoleWerewolf},
	})
	if err := st.recordVote("a", "b", 1, "gut call"); err != nil {
		t.Fatalf("recordVote: %v", err)
	}
	if err := st.recordVote("ghost", "b", 1, ""); err == nil {
		t.Fatal("vote from unknown player must fail")
	}
	cast := st.VotesCast("a")
	if len(cast) != 1 || cast[0].Target != "b" || cast[0].Reason != "gut call" {
		t.Fatalf("unexpected cast log: %+v", cast)
	}
	recv := st.VotesReceived("b")
	if len(recv) != 1 || recv[0].From != "a" {
		t.Fatalf("unexpected received log: %+v", recv)
	}
}

func TestRolesForCount(t *testing.T) {
	if RolesForCount(3) != nil {
		t.Fatal("under 4 players has no valid role list")
	}
	roles := RolesForCount(7)
	wolves := 0
	for _, r := range roles {
		if r == RoleWerewolf {
			wolves++
		}
	}
	if len(roles) != 7 || wolves != 2 {
		t.Fatalf("7 players must get 2 wolves, got %v", roles)
	}
	roles = RolesForCount(5)
	wolves = 0
	for _, r := range roles {
		if r == RoleWerewolf {
			wolves++
		}
	}
	if wolves != 1 {
		t.Fatalf("5 players must get 1 wolf, got %v", roles)
	}
}

func TestAssignRolesDeterministic(t *testing.T) {
	players := []Player{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}, {ID: "e"}, {ID: "f"}, {ID: "g"}}
	first, err := AssignRoles(players, 42)
	if err != nil {
		t.Fatal(err)
	}
	second, err := AssignRoles(players, 42)
	if err != nil {
		t.Fatal(err)
	}
	for i := range first {
		if first[i].Role != second[i].Role {
			t.Fatalf("same seed produced different assignment at %d: %s vs %s", i, first[i].Role, second[i].Role)
		}
	}
	if _, err := AssignRoles(players[:2], 42); err == nil {
		t.Fatal("too small roster must fail")
	}
}
