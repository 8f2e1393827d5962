// Package log 提供进程级的结构化日志
// 日志同时以JSON格式写入文件、以文本格式输出到终端
package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/pkg/errors"
)

var (
	logger  = slog.New(slog.NewTextHandler(os.Stdout, nil))
	logFile *os.File
	mu      sync.Mutex
)

// ParseLevel 将配置中的级别名称转换为slog级别，无法识别时返回Info
func ParseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// NewStructuredLogger 创建JSON格式输出的日志器
func NewStructuredLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// InitLog 初始化日志文件，filename为空时只输出到终端
func InitLog(filename string, level slog.Level) error {
	mu.Lock()
	defer mu.Unlock()

	console := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	if filename == "" {
		logger = slog.New(console)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return errors.Wrap(err, "create log directory")
	}
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "create log file")
	}

	logFile = file
	logger = slog.New(teeHandler{
		console,
		slog.NewJSONHandler(file, &slog.HandlerOptions{Level: level}),
	})
	return nil
}

// CloseLog 关闭日志文件并恢复为终端输出
func CloseLog() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		if err := logFile.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to close log file: %v\n", err)
		}
		logFile = nil
	}
	logger = slog.New(slog.NewTextHandler(os.Stdout, nil))
}

// Logger 返回当前的进程级日志器
func Logger() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

// SetLogger 替换进程级日志器
func SetLogger(l *slog.Logger) {
	if l == nil {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	logger = l
}

// WriteLog 写入一条信息级日志
func WriteLog(message string) {
	Logger().Info(message)
}

// LogError 记录带上下文的错误
func LogError(message string, err error, attrs ...slog.Attr) {
	args := make([]any, 0, len(attrs)+1)
	args = append(args, slog.String("error", err.Error()))
	for _, attr := range attrs {
		args = append(args, attr)
	}
	Logger().Error(message, args...)
}

// LogEnvironment 记录运行环境
func LogEnvironment() {
	Logger().Info("environment",
		slog.String("go", runtime.Version()),
		slog.String("os", runtime.GOOS),
		slog.String("arch", runtime.GOARCH),
		slog.Int("cpus", runtime.NumCPU()),
	)
}

// LogSimParameters 记录模拟参数
func LogSimParameters(runID string, ticksPerSecond, runTime, maxVehiclesPerLane, timeToCross int, arrivalRate float64, numConfigs int) {
	Logger().Info("simulation parameters",
		slog.String("run", runID),
		slog.Int("ticksPerSecond", ticksPerSecond),
		slog.Int("runTime", runTime),
		slog.Int("maxVehiclesPerLane", maxVehiclesPerLane),
		slog.Int("timeToCross", timeToCross),
		slog.Float64("arrivalRate", arrivalRate),
		slog.Int("lightConfigs", numConfigs),
	)
}

// ConvertTimeStepToTime 将tick数转换为 时:分:秒 形式
func ConvertTimeStepToTime(timeStep, ticksPerSecond int) string {
	if ticksPerSecond <= 0 {
		ticksPerSecond = 1
	}
	seconds := timeStep / ticksPerSecond
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, seconds%3600/60, seconds%60)
}

// teeHandler 将日志记录分发到多个handler
type teeHandler []slog.Handler

func (h teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h teeHandler) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, handler := range h {
		if !handler.Enabled(ctx, r.Level) {
			continue
		}
		if err := handler.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (h teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(teeHandler, len(h))
	for i, handler := range h {
		out[i] = handler.WithAttrs(attrs)
	}
	return out
}

func (h teeHandler) WithGroup(name string) slog.Handler {
	out := make(teeHandler, len(h))
	for i, handler := range h {
		out[i] = handler.WithGroup(name)
	}
	return out
}
