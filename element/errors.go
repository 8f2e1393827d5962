package element

import "github.com/pkg/errors"

// 可恢复错误，调用方根据返回值处理
var (
	ErrInvalidLanes     = errors.New("invalid number of lanes")
	ErrInvalidDirection = errors.New("road direction out of range")
	ErrInvalidTurnType  = errors.New("turn type out of range")
)

// 内部不变量被破坏时通过panic抛出的错误
// 这些错误意味着引擎或调用方存在bug，不存在可继续运行的修复状态
var (
	ErrInvalidState    = errors.New("traffic light reached unexpected color")
	ErrInvalidDuration = errors.New("duration must be >= -1")
	ErrNothingCrossing = errors.New("no vehicles are crossing the intersection")
)

// fatal 以包装后的错误触发panic，recover方可使用errors.Is判断类别
func fatal(err error, format string, args ...any) {
	panic(errors.Wrapf(err, format, args...))
}
