package game

import (
	"reflect"
	"slices"
	"unicode/utf8"
)

// SelectionKind names the shape of a Selection.
type SelectionKind string

const (
	SelectionUnit                 SelectionKind = "unit"
	SelectionBoolean              SelectionKind = "boolean"
	SelectionPlayerOption         SelectionKind = "player_option"
	SelectionTwoPlayerOption      SelectionKind = "two_player_option"
	SelectionRoleOption           SelectionKind = "role_option"
	SelectionTwoRoleOutlineOption SelectionKind = "two_role_outline_option"
	SelectionInteger              SelectionKind = "integer"
	SelectionChatMessage          SelectionKind = "chat_message"
)

// Selection is a value submitted for an ability slot.
type Selection interface {
	Kind() SelectionKind
}

type UnitSelection struct{}

type BooleanSelection struct {
	Value bool `json:"value"`
}

type PlayerOption struct {
	Player *PlayerIndex `json:"player,omitempty"`
}

type TwoPlayerOption struct {
	Players *[2]PlayerIndex `json:"players,omitempty"`
}

type RoleOption struct {
	Role Role `json:"role,omitempty"`
}

// TwoRoleOutlineOption picks up to two entries of the role list by index.
type TwoRoleOutlineOption struct {
	First  *int `json:"first,omitempty"`
	Second *int `json:"second,omitempty"`
}

type IntegerSelection struct {
	Value int `json:"value"`
}

type ChatMessageSelection struct {
	Text string `json:"text"`
}

func (UnitSelection) Kind() SelectionKind        { return SelectionUnit }
func (BooleanSelection) Kind() SelectionKind     { return SelectionBoolean }
func (PlayerOption) Kind() SelectionKind         { return SelectionPlayerOption }
func (TwoPlayerOption) Kind() SelectionKind      { return SelectionTwoPlayerOption }
func (RoleOption) Kind() SelectionKind           { return SelectionRoleOption }
func (TwoRoleOutlineOption) Kind() SelectionKind { return SelectionTwoRoleOutlineOption }
func (IntegerSelection) Kind() SelectionKind     { return SelectionInteger }
func (ChatMessageSelection) Kind() SelectionKind { return SelectionChatMessage }

func (o TwoRoleOutlineOption) indices() []int {
	var out []int
	if o.First != nil {
		out = append(out, *o.First)
	}
	if o.Second != nil {
		out = append(out, *o.Second)
	}
	return out
}

func selectionsEqual(a, b Selection) bool {
	return reflect.DeepEqual(a, b)
}

// AvailableSelection is the legal value space of an ability slot. Validate
// is a pure function of the receiver and its argument.
type AvailableSelection interface {
	Validate(sel Selection) bool
	Default() Selection
}

type AvailableUnit struct{}

func (AvailableUnit) Validate(sel Selection) bool {
	_, ok := sel.(UnitSelection)
	return ok
}

func (AvailableUnit) Default() Selection { return UnitSelection{} }

type AvailableBoolean struct{}

func (AvailableBoolean) Validate(sel Selection) bool {
	_, ok := sel.(BooleanSelection)
	return ok
}

func (AvailableBoolean) Default() Selection { return BooleanSelection{} }

type AvailablePlayerOption struct {
	Players       []PlayerIndex
	CanChooseNone bool
}

func (a AvailablePlayerOption) Validate(sel Selection) bool {
	opt, ok := sel.(PlayerOption)
	if !ok {
		return false
	}
	if opt.Player == nil {
		return a.CanChooseNone
	}
	return slices.Contains(a.Players, *opt.Player)
}

func (AvailablePlayerOption) Default() Selection { return PlayerOption{} }

type AvailableTwoPlayerOption struct {
	Players             []PlayerIndex
	CanChooseNone       bool
	CanChooseDuplicates bool
}

func (a AvailableTwoPlayerOption) Validate(sel Selection) bool {
	opt, ok := sel.(TwoPlayerOption)
	if !ok {
		return false
	}
	if opt.Players == nil {
		return a.CanChooseNone
	}
	first, second := opt.Players[0], opt.Players[1]
	if first == second && !a.CanChooseDuplicates {
		return false
	}
	return slices.Contains(a.Players, first) && slices.Contains(a.Players, second)
}

func (AvailableTwoPlayerOption) Default() Selection { return TwoPlayerOption{} }

type AvailableRoleOption struct {
	Roles         []Role
	CanChooseNone bool
}

func (a AvailableRoleOption) Validate(sel Selection) bool {
	opt, ok := sel.(RoleOption)
	if !ok {
		return false
	}
	if opt.Role == RoleNone {
		return a.CanChooseNone
	}
	return slices.Contains(a.Roles, opt.Role)
}

func (AvailableRoleOption) Default() Selection { return RoleOption{} }

type AvailableTwoRoleOutlineOption struct {
	Outlines      []int
	CanChooseNone bool
}

func (a AvailableTwoRoleOutlineOption) Validate(sel Selection) bool {
	opt, ok := sel.(TwoRoleOutlineOption)
	if !ok {
		return false
	}
	picked := opt.indices()
	if len(picked) == 0 {
		return a.CanChooseNone
	}
	if len(picked) == 2 && picked[0] == picked[1] {
		return false
	}
	for _, i := range picked {
		if !slices.Contains(a.Outlines, i) {
			return false
		}
	}
	return true
}

func (AvailableTwoRoleOutlineOption) Default() Selection { return TwoRoleOutlineOption{} }

// AvailableInteger accepts integers in the inclusive range [Min, Max].
type AvailableInteger struct {
	Min int
	Max int
}

func (a AvailableInteger) Validate(sel Selection) bool {
	opt, ok := sel.(IntegerSelection)
	return ok && opt.Value >= a.Min && opt.Value <= a.Max
}

func (a AvailableInteger) Default() Selection { return IntegerSelection{Value: a.Min} }

type AvailableChatMessage struct {
	MaxLen int
}

func (a AvailableChatMessage) Validate(sel Selection) bool {
	opt, ok := sel.(ChatMessageSelection)
	return ok && utf8.RuneCountInString(opt.Text) <= a.MaxLen
}

func (AvailableChatMessage) Default() Selection { return ChatMessageSelection{} }
