package connection

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"

	"github.com/mitchellh/mapstructure"

	cerr "github.com/Machurui/longship/internal/error"
	mb "github.com/Machurui/longship/models/battleship"
)

type ReqCreateGame struct {
	GameDifficulty uint8 `json:"game_difficulty" mapstructure:"game_difficulty"`
	GameMode       uint8 `json:"game_mode" mapstructure:"game_mode"`
}

type ReqJoinGame struct {
	GameUuid string `json:"game_uuid" mapstructure:"game_uuid"`
}

type ReqPlacement struct {
	Ship     string `json:"ship" mapstructure:"ship"`
	Row      int    `json:"row" mapstructure:"row"`
	Column   int    `json:"column" mapstructure:"column"`
	Vertical bool   `json:"vertical" mapstructure:"vertical"`
}

type ReqReadyPlayer struct {
	Placements []ReqPlacement `json:"placements" mapstructure:"placements"`

	// The server keeps the fleet and answers attacks for the player
	AutoAnswer bool `json:"auto_answer" mapstructure:"auto_answer"`
}

type ReqAttack struct {
	Row    int `json:"row" mapstructure:"row"`
	Column int `json:"column" mapstructure:"column"`
}

type ReqAnswer struct {
	Row    int   `json:"row" mapstructure:"row"`
	Column int   `json:"column" mapstructure:"column"`
	Status uint8 `json:"status" mapstructure:"status"`
}

// ToPlacements converts the request into fleet placements.
func (r ReqReadyPlayer) ToPlacements() ([]mb.Placement, error) {
	placements := make([]mb.Placement, 0, len(r.Placements))
	for _, p := range r.Placements {
		shipType, err := mb.ParseShipType(p.Ship)
		if err != nil {
			return nil, err
		}

		orientation := mb.OrientationHorizontal
		if p.Vertical {
			orientation = mb.OrientationVertical
		}
		placements = append(placements, mb.NewPlacement(shipType, p.Row, p.Column, orientation))
	}
	return placements, nil
}

func (r ReqAttack) Coordinates() mb.Coordinates {
	return mb.NewCoordinates(r.Row, r.Column)
}

func (r ReqAnswer) ToAnswer() (mb.Answer, error) {
	return mb.NewAnswerFromStatus(mb.NewCoordinates(r.Row, r.Column), r.Status)
}

// DecodePayload reads the generic payload of an incoming message into T.
func DecodePayload[T any](payload []byte) (T, error) {
	var (
		target T
		msg    Message[map[string]interface{}]
	)

	if err := json.Unmarshal(payload, &msg); err != nil {
		return target, cerr.ErrDecodePayload(err)
	}
	if msg.Payload == nil {
		return target, cerr.ErrNilPayload()
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &target,
		ErrorUnused: true,
		DecodeHook:  mapstructure.DecodeHookFuncType(exactIntegerHook),
	})
	if err != nil {
		return target, cerr.ErrDecodePayload(err)
	}
	if err := decoder.Decode(msg.Payload); err != nil {
		return target, cerr.ErrDecodePayload(err)
	}
	return target, nil
}

// exactIntegerHook rejects JSON numbers that an integer field would
// otherwise truncate or wrap, e.g. 1.7 or 256 for a uint8.
func exactIntegerHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() != reflect.Float64 {
		return data, nil
	}
	f := data.(float64)

	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 || reflect.Zero(to).OverflowInt(int64(f)) {
			return nil, fmt.Errorf("%v is not a valid %s", f, to.Kind())
		}
		return int64(f), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if f != math.Trunc(f) || f < 0 || f >= math.MaxUint64 || reflect.Zero(to).OverflowUint(uint64(f)) {
			return nil, fmt.Errorf("%v is not a valid %s", f, to.Kind())
		}
		return uint64(f), nil
	}
	return data, nil
}
