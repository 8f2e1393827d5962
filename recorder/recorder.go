// Package recorder 将模拟过程中的信号灯、车道和系统数据缓存并写入CSV
package recorder

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"smartTraffic/log"
	"smartTraffic/utils"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	KindSystem = "system"
	KindLight  = "light"
	KindLane   = "lane"
)

// rowCache 一类数据的行缓存
type rowCache struct {
	mu   sync.Mutex
	rows [][]string
}

func (c *rowCache) add(row []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows = append(c.rows, row)
}

// take 取出并清空缓存
func (c *rowCache) take() [][]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	rows := c.rows
	c.rows = nil
	return rows
}

func (c *rowCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.rows)
}

// Recorder 一次模拟运行的数据记录器
// 文件名和每行数据都带有运行ID
type Recorder struct {
	runID uuid.UUID
	files map[string]string
	pool  *utils.WorkerPool

	caches  map[string]*rowCache
	writeMu sync.Mutex // 串行化文件写入
	pending sync.WaitGroup

	errMu    sync.Mutex
	firstErr error
}

// NewRecorder 在dir下创建本次运行的CSV文件
// pool为nil时Flush同步写入
func NewRecorder(dir string, runID uuid.UUID, pool *utils.WorkerPool) (*Recorder, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(err, "create data directory")
	}

	r := &Recorder{
		runID: runID,
		pool:  pool,
		files: map[string]string{
			KindSystem: filepath.Join(dir, runID.String()+"_SystemData.csv"),
			KindLight:  filepath.Join(dir, runID.String()+"_LightData.csv"),
			KindLane:   filepath.Join(dir, runID.String()+"_LaneData.csv"),
		},
		caches: map[string]*rowCache{
			KindSystem: {},
			KindLight:  {},
			KindLane:   {},
		},
	}

	headers := map[string][]string{
		KindSystem: systemDataHeader,
		KindLight:  lightDataHeader,
		KindLane:   laneDataHeader,
	}
	for kind, filename := range r.files {
		if fileExists(filename) {
			return nil, errors.Errorf("data file %s already exists", filename)
		}
		if err := initializeCSV(filename, headers[kind]); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Recorder) RunID() uuid.UUID {
	return r.runID
}

// File 返回某类数据的CSV文件路径
func (r *Recorder) File(kind string) string {
	return r.files[kind]
}

// Pending 返回某类数据尚未写入文件的行数
func (r *Recorder) Pending(kind string) int {
	c, ok := r.caches[kind]
	if !ok {
		return 0
	}
	return c.len()
}

// Flush 将缓存数据写入文件，有工作池时异步执行
// 缓存在写锁内取出，同一文件中的行保持记录顺序
func (r *Recorder) Flush() {
	for kind, c := range r.caches {
		if c.len() == 0 {
			continue
		}

		filename := r.files[kind]
		r.pending.Add(1)
		job := func() {
			defer r.pending.Done()
			r.write(filename, c)
		}
		if r.pool == nil || !r.pool.Submit(job) {
			job()
		}
	}
}

// Close 写入剩余数据并等待所有写入完成，返回过程中遇到的第一个错误
func (r *Recorder) Close() error {
	r.Flush()
	r.pending.Wait()

	r.errMu.Lock()
	defer r.errMu.Unlock()
	return r.firstErr
}

func (r *Recorder) write(filename string, c *rowCache) {
	r.writeMu.Lock()
	rows := c.take()
	var err error
	if len(rows) > 0 {
		err = appendToCSV(filename, rows)
	}
	r.writeMu.Unlock()
	if err == nil {
		return
	}

	log.LogError("write data failed", err, slog.String("file", filename), slog.Int("rows", len(rows)))
	r.errMu.Lock()
	if r.firstErr == nil {
		r.firstErr = err
	}
	r.errMu.Unlock()
}
