package policy

import (
	"math/rand"
	"testing"

	"github.com/alphabeth/porygon/battle"
	"github.com/stretchr/testify/require"
)

func sampleMon(id int32, hp int) battle.Creature {
	return battle.Creature{
		ID:     id,
		HP:     hp,
		BaseHP: 100,
		Type:   battle.Normal,
		Stats:  battle.Stats{Attack: 50, Defense: 50, Speed: 50},
		Moves: []battle.Move{
			{Name: "Weak", BaseDamage: 10, PP: 5, BasePP: 5, Type: battle.Normal},
			{Name: "Strong", BaseDamage: 90, PP: 5, BasePP: 5, Type: battle.Normal},
		},
	}
}

func TestForceSwitchDefaultSkipsFaintedAndActive(t *testing.T) {
	party := []battle.Creature{sampleMon(1, 0), sampleMon(2, 0), sampleMon(3, 100)}
	require.Equal(t, 2, ForceSwitchDefault(party))
}

func TestForceSwitchDefaultReturnsZeroWhenAllFainted(t *testing.T) {
	party := []battle.Creature{sampleMon(1, 0), sampleMon(2, 0)}
	require.Equal(t, 0, ForceSwitchDefault(party))
}

func TestHighestDamagePicksStrongestMove(t *testing.T) {
	player := &battle.Side{Party: []battle.Creature{sampleMon(1, 100)}}
	opponent := &battle.Side{Party: []battle.Creature{sampleMon(2, 100)}}

	var committed battle.Move
	attack := func(m battle.Move) error { committed = m; return nil }
	useItem := func(interface{}) error { return nil }
	switchTo := func(int) error { return nil }

	hd := HighestDamage{Rng: rand.New(rand.NewSource(1))}
	require.NoError(t, hd.TakeTurn(player, opponent, attack, useItem, switchTo))
	require.Equal(t, "Strong", committed.Name)
}

func TestHighestDamageFallsBackToStruggleWhenOutOfPP(t *testing.T) {
	player := &battle.Side{Party: []battle.Creature{sampleMon(1, 100)}}
	player.Party[0].Moves[0].PP = 0
	player.Party[0].Moves[1].PP = 0
	opponent := &battle.Side{Party: []battle.Creature{sampleMon(2, 100)}}

	var committed battle.Move
	attack := func(m battle.Move) error { committed = m; return nil }
	hd := HighestDamage{}
	require.NoError(t, hd.TakeTurn(player, opponent, attack, func(interface{}) error { return nil }, func(int) error { return nil }))
	require.Equal(t, battle.StruggleMove, committed)
}

func TestOneShotExecutesExactlyOnce(t *testing.T) {
	player := &battle.Side{Party: []battle.Creature{sampleMon(1, 100)}}
	opponent := &battle.Side{Party: []battle.Creature{sampleMon(2, 100)}}

	action := battle.Action{Kind: battle.AttackKind, MoveIndex: 1}
	os := NewOneShot(action)

	var calls int
	attack := func(battle.Move) error { calls++; return nil }
	useItem := func(interface{}) error { return nil }
	switchTo := func(int) error { return nil }

	require.NoError(t, os.TakeTurn(player, opponent, attack, useItem, switchTo))
	require.True(t, os.spent)
	require.Equal(t, 1, calls)

	// second call falls through to the Random baseline rather than re-firing
	// the same committed action.
	require.NoError(t, os.TakeTurn(player, opponent, attack, useItem, switchTo))
}

func TestRandomAlwaysCommitsToALegalAction(t *testing.T) {
	player := &battle.Side{Party: []battle.Creature{sampleMon(1, 100), sampleMon(2, 100)}}
	opponent := &battle.Side{Party: []battle.Creature{sampleMon(3, 100)}}

	r := Random{Rng: rand.New(rand.NewSource(5))}
	var attacked, switched bool
	attack := func(battle.Move) error { attacked = true; return nil }
	switchTo := func(int) error { switched = true; return nil }

	for i := 0; i < 20; i++ {
		require.NoError(t, r.TakeTurn(player, opponent, attack, func(interface{}) error { return nil }, switchTo))
	}
	require.True(t, attacked || switched)
}
