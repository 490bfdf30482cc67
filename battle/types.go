// Package battle holds the creature-battle data model and the one concrete
// Simulator that satisfies the core's forward-simulator contract.
package battle

// Limits mirrored from the harness contract.
const (
	PartyMax  = 6
	MovesMax  = 4
	Epsilon   = 1e-16
	StruggleIndex = MovesMax // distinguished move slot, used when pp is 0 everywhere
)

// Type is a creature/move elemental type.
type Type uint8

// The eighteen elemental types used by the effectiveness table.
const (
	Normal Type = iota
	Fighting
	Flying
	Poison
	Ground
	Rock
	Bug
	Ghost
	Steel
	Fire
	Water
	Grass
	Electric
	Psychic
	Ice
	Dragon
	Dark
	Fairy
)

// Effectiveness is the damage multiplier a move's type has on a defender's type.
type Effectiveness float32

// The four effectiveness tiers.
const (
	NoEffect       Effectiveness = 0
	NotEffective   Effectiveness = 0.5
	NormalEffect   Effectiveness = 1
	SuperEffective Effectiveness = 2
)

// Status is a lingering health condition.
type Status uint8

// Status values, matching the harness's CSV contract (§6).
const (
	NoStatus Status = iota
	Poison
	BadPoison
	Infatuation
	Confusion
	Sleep
	Paralysis
	Freeze
	Burn
)

// Stats is a creature's battle stat block.
type Stats struct {
	Attack         int
	Defense        int
	SpecialAttack  int
	SpecialDefense int
	Speed          int
}

// Move is a single attack a creature can perform.
type Move struct {
	Name       string
	BaseDamage int
	PP         int
	BasePP     int
	Type       Type
	Special    bool
	BaseHeal   int
	Inflict    Status
}

// Available reports whether the move can still be selected.
func (m Move) Available() bool { return m.PP > 0 }

// IsDamaging reports whether the move deals direct damage.
func (m Move) IsDamaging() bool { return m.BaseDamage > 0 }

// StruggleMove is the implicit fallback attack used when every move is out of PP.
// It has unlimited uses so it is always legal.
var StruggleMove = Move{
	Name:       "Struggle",
	BaseDamage: 50,
	PP:         1,
	BasePP:     1,
	Type:       Normal,
	Special:    false,
}

// Creature is a single party member.
type Creature struct {
	ID     int32 // stable id, unique within its side, assigned once at party construction
	Name   string
	Type   Type
	Level  int
	Stats  Stats
	Moves  []Move // at most MovesMax
	HP     int
	BaseHP int

	Status           Status
	StatusTurns      int
	OtherStatus      Status
	OtherStatusTurns int
}

// IsFainted reports whether the creature has 0 HP.
func (c *Creature) IsFainted() bool { return c.HP <= 0 }

// TakeDamage reduces HP, floored at zero.
func (c *Creature) TakeDamage(dmg int) {
	c.HP -= dmg
	if c.HP < 0 {
		c.HP = 0
	}
}

// Heal raises HP, capped at BaseHP.
func (c *Creature) Heal(hp int) {
	c.HP += hp
	if c.HP > c.BaseHP {
		c.HP = c.BaseHP
	}
}

// UsableMoves returns the indices of moves with pp > 0. It returns an empty
// slice when none exist; LegalActions then offers the Struggle slot instead.
func (c *Creature) UsableMoves() []int {
	var idxs []int
	for i, m := range c.Moves {
		if i >= MovesMax {
			break
		}
		if m.Available() {
			idxs = append(idxs, i)
		}
	}
	return idxs
}

// MoveAt returns the move at idx, or StruggleMove for the distinguished Struggle slot.
func (c *Creature) MoveAt(idx int) Move {
	if idx == StruggleIndex || idx >= len(c.Moves) {
		return StruggleMove
	}
	return c.Moves[idx]
}

// AttackFunc commits to using a move this turn.
type AttackFunc func(move Move) error

// UseItemFunc commits to using a bag item this turn. The core never calls this
// itself; it exists so a Policy satisfies the same callback surface the
// harness exposes to hand-coded baselines.
type UseItemFunc func(item interface{}) error

// SwitchFunc commits to switching the active creature to partyIndex (> 0).
type SwitchFunc func(partyIndex int) error

// Policy is the decision-making capability a Side plugs in. It is declared
// here (rather than in a higher-level package) so Side can hold one without
// creating an import cycle with the packages that implement it.
type Policy interface {
	TakeTurn(player, opponent *Side, attack AttackFunc, useItem UseItemFunc, switchTo SwitchFunc) error
	ForceSwitch(party []Creature) int
}

// Side is one of the two competing parties. It is a value type: callers pass
// it by pointer when they want mutation and Clone() when they want isolation.
type Side struct {
	Name   string
	ID     int32
	Party  []Creature // index 0 is active; up to PartyMax
	Policy Policy     // optional
	Bag    interface{} // opaque to the core
}

// Active returns the currently battling creature.
func (s *Side) Active() *Creature {
	if len(s.Party) == 0 {
		return nil
	}
	return &s.Party[0]
}

// HasLost reports whether every creature on the side has fainted.
func (s *Side) HasLost() bool {
	for i := range s.Party {
		if !s.Party[i].IsFainted() {
			return false
		}
	}
	return true
}

// SwitchTo moves the creature at partyIndex (> 0, not fainted) into the active slot.
func (s *Side) SwitchTo(partyIndex int) {
	if partyIndex <= 0 || partyIndex >= len(s.Party) {
		return
	}
	s.Party[0], s.Party[partyIndex] = s.Party[partyIndex], s.Party[0]
}

// Clone performs a deep, independent copy of the side. The Policy handle is
// carried over by reference since it is a strategy, not mutable state.
func (s *Side) Clone() Side {
	party := make([]Creature, len(s.Party))
	for i, c := range s.Party {
		party[i] = c
		party[i].Moves = append([]Move(nil), c.Moves...)
	}
	return Side{
		Name:   s.Name,
		ID:     s.ID,
		Party:  party,
		Policy: s.Policy,
		Bag:    s.Bag,
	}
}

// SortedByID returns indices into Party sorted by ascending stable id. Padding
// and order-invariance in the encoder rely on this ordering.
func (s *Side) SortedByID() []int {
	idxs := make([]int, len(s.Party))
	for i := range idxs {
		idxs[i] = i
	}
	// insertion sort: party sizes are tiny (<= PartyMax)
	for i := 1; i < len(idxs); i++ {
		for j := i; j > 0 && s.Party[idxs[j-1]].ID > s.Party[idxs[j]].ID; j-- {
			idxs[j-1], idxs[j] = idxs[j], idxs[j-1]
		}
	}
	return idxs
}

// RankOf returns the sorted-by-id rank of the creature with the given stable id.
func (s *Side) RankOf(id int32) int {
	for rank, idx := range s.SortedByID() {
		if s.Party[idx].ID == id {
			return rank
		}
	}
	return -1
}

// ActionKind tags the variant held by an Action.
type ActionKind uint8

// The two action kinds a side can take on its turn.
const (
	AttackKind ActionKind = iota
	SwitchKind
)

// Action is the tagged Attack(move_index)/Switch(party_index) variant.
type Action struct {
	Kind       ActionKind
	MoveIndex  int // 0..MovesMax-1, or StruggleIndex
	PartyIndex int // 1..PartyMax-1

	// Description is a short human-readable label, used for debugging only.
	Description string
}

// LegalActions enumerates every move with pp > 0 on the active creature, and
// every switch to a non-fainted party member other than the active slot. If
// no move has pp remaining, Struggle is the sole attack action (§4.6, §8).
func LegalActions(side *Side) []Action {
	var actions []Action
	active := side.Active()
	if active == nil {
		return actions
	}
	usable := active.UsableMoves()
	if len(usable) == 0 {
		actions = append(actions, Action{
			Kind:        AttackKind,
			MoveIndex:   StruggleIndex,
			Description: active.Name + " used Struggle.",
		})
	} else {
		for _, idx := range usable {
			actions = append(actions, Action{
				Kind:        AttackKind,
				MoveIndex:   idx,
				Description: active.Name + " used " + active.Moves[idx].Name + ".",
			})
		}
	}
	for i := 1; i < len(side.Party); i++ {
		if !side.Party[i].IsFainted() {
			actions = append(actions, Action{
				Kind:        SwitchKind,
				PartyIndex:  i,
				Description: active.Name + " switched out with " + side.Party[i].Name + ".",
			})
		}
	}
	return actions
}
