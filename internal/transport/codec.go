package transport

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/roach88/duskfall/internal/game"
)

// Envelope is the wire form of every message in both directions:
//
//	{"type": "vote", "data": {"player": 2}}
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Client message types.
const (
	TypeSendChatMessage = "send_chat_message"
	TypeSendWhisper     = "send_whisper"
	TypeSaveWill        = "save_will"
	TypeVote            = "vote"
	TypeJudgementVote   = "judgement_vote"
	TypeVoteFastForward = "vote_fast_forward"
	TypeAbilityInput    = "ability_input"
)

var (
	ErrUnknownMessage   = errors.New("unknown message type")
	ErrUnknownSelection = errors.New("unknown selection kind")
)

// DecodeClientMessage parses one client envelope.
func DecodeClientMessage(data []byte) (game.ClientMessage, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}

	switch env.Type {
	case TypeSendChatMessage:
		return decodeAs[game.SendChatMessage](env)
	case TypeSendWhisper:
		return decodeAs[game.SendWhisper](env)
	case TypeSaveWill:
		return decodeAs[game.SaveWill](env)
	case TypeVote:
		return decodeAs[game.Vote](env)
	case TypeJudgementVote:
		return decodeAs[game.JudgementVote](env)
	case TypeVoteFastForward:
		return decodeAs[game.VoteFastForward](env)
	case TypeAbilityInput:
		return decodeAbilityInput(env)
	case "":
		return nil, errors.New("decode envelope: missing type")
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownMessage, env.Type)
}

func decodeAs[T game.ClientMessage](env Envelope) (game.ClientMessage, error) {
	var m T
	if len(env.Data) == 0 {
		return m, nil
	}
	if err := json.Unmarshal(env.Data, &m); err != nil {
		return nil, fmt.Errorf("decode %s: %w", env.Type, err)
	}
	return m, nil
}

type abilityInputJSON struct {
	ID        game.ControllerID `json:"id"`
	Selection json.RawMessage   `json:"selection"`
}

func decodeAbilityInput(env Envelope) (game.ClientMessage, error) {
	var in abilityInputJSON
	if err := json.Unmarshal(env.Data, &in); err != nil {
		return nil, fmt.Errorf("decode %s: %w", env.Type, err)
	}
	sel, err := DecodeSelection(in.Selection)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", env.Type, err)
	}
	return game.AbilityInput{ID: in.ID, Selection: sel}, nil
}

// DecodeSelection parses a selection tagged with its kind:
//
//	{"kind": "player_option", "player": 3}
func DecodeSelection(data []byte) (game.Selection, error) {
	if len(data) == 0 {
		return nil, errors.New("missing selection")
	}
	var tag struct {
		Kind game.SelectionKind `json:"kind"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return nil, err
	}

	switch tag.Kind {
	case game.SelectionUnit:
		return game.UnitSelection{}, nil
	case game.SelectionBoolean:
		return selectionAs[game.BooleanSelection](data)
	case game.SelectionPlayerOption:
		return selectionAs[game.PlayerOption](data)
	case game.SelectionTwoPlayerOption:
		return selectionAs[game.TwoPlayerOption](data)
	case game.SelectionRoleOption:
		return selectionAs[game.RoleOption](data)
	case game.SelectionTwoRoleOutlineOption:
		return selectionAs[game.TwoRoleOutlineOption](data)
	case game.SelectionInteger:
		return selectionAs[game.IntegerSelection](data)
	case game.SelectionChatMessage:
		return selectionAs[game.ChatMessageSelection](data)
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownSelection, tag.Kind)
}

func selectionAs[T game.Selection](data []byte) (game.Selection, error) {
	var s T
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return s, nil
}

// EncodeSelection writes sel with its kind tag so DecodeSelection can read
// it back.
func EncodeSelection(sel game.Selection) (json.RawMessage, error) {
	body, err := json.Marshal(sel)
	if err != nil {
		return nil, err
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	kind, err := json.Marshal(sel.Kind())
	if err != nil {
		return nil, err
	}
	fields["kind"] = kind
	return json.Marshal(fields)
}

type selectionPacketJSON struct {
	ID        game.ControllerID `json:"id"`
	Selection json.RawMessage   `json:"selection,omitempty"`
}

// EncodePacket wraps a game packet in an envelope.
func EncodePacket(p game.Packet) (Envelope, error) {
	var (
		data []byte
		err  error
	)
	switch p := p.(type) {
	case game.SelectionPacket:
		out := selectionPacketJSON{ID: p.ID}
		if p.Selection != nil {
			if out.Selection, err = EncodeSelection(p.Selection); err != nil {
				return Envelope{}, fmt.Errorf("encode %s: %w", p.PacketType(), err)
			}
		}
		data, err = json.Marshal(out)
	default:
		data, err = json.Marshal(p)
	}
	if err != nil {
		return Envelope{}, fmt.Errorf("encode %s: %w", p.PacketType(), err)
	}
	return Envelope{Type: p.PacketType(), Data: data}, nil
}
