package simulator

import (
	"strconv"

	"github.com/pkg/errors"
)

var (
	ErrEmptySchedule = errors.New("no light configs scheduled")
	ErrRoadNotFound  = errors.New("road required by light config does not exist")
	ErrInvalidConfig = errors.New("invalid intersection config")
)

// 以下错误通过panic抛出
var (
	ErrInvalidPattern = errors.New("unknown light config pattern")
	ErrLightDesync    = errors.New("unfinished light counter went negative")
)

// IntersectionError AddRoad的结果
type IntersectionError int

const (
	Success IntersectionError = iota
	Unknown
	AlreadyExists
	TurnNotPossible
)

func (e IntersectionError) String() string {
	switch e {
	case Success:
		return "success"
	case Unknown:
		return "unknown"
	case AlreadyExists:
		return "road already exists"
	case TurnNotPossible:
		return "turn not possible"
	default:
		return "IntersectionError(" + strconv.Itoa(int(e)) + ")"
	}
}
