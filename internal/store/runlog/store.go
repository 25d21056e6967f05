package runlog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrRunNotFound 在流水不存在时返回。
var ErrRunNotFound = errors.New("run not found")

// Store 基于 Gorm + SQLite 落盘评估流水。
type Store struct {
	db *gorm.DB
}

// New 打开（必要时创建）流水数据库。
func New(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("runlog store: path cannot be empty")
	}
	if err := ensureDir(path); err != nil {
		return nil, err
	}
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL&cache=shared", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&RunModel{}); err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// SQLite + WAL：给 HTTP 侧并发读留一点余量，同时控制锁竞争。
	sqlDB.SetMaxOpenConns(2)
	sqlDB.SetMaxIdleConns(2)
	return &Store{db: db}, nil
}

// Close 关闭底层连接。
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveRun 写入一条流水。
func (s *Store) SaveRun(ctx context.Context, rec *RunModel) error {
	if rec == nil {
		return fmt.Errorf("runlog store: nil record")
	}
	if strings.TrimSpace(rec.TraceID) == "" {
		return fmt.Errorf("runlog store: trace id is required")
	}
	if rec.CreatedAtUnix == 0 {
		rec.CreatedAtUnix = time.Now().Unix()
	}
	return s.db.WithContext(ctx).Create(rec).Error
}

// GetRun 按 trace id 查询。
func (s *Store) GetRun(ctx context.Context, traceID string) (*RunModel, error) {
	traceID = strings.TrimSpace(traceID)
	if traceID == "" {
		return nil, fmt.Errorf("runlog store: trace id is required")
	}
	var rec RunModel
	err := s.db.WithContext(ctx).Where("trace_id = ?", traceID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListRuns 按时间倒序返回最近的流水，symbol 为空时不过滤。
func (s *Store) ListRuns(ctx context.Context, symbol string, limit int) ([]RunModel, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}
	q := s.db.WithContext(ctx).Model(&RunModel{}).Order("created_at DESC, id DESC").Limit(limit)
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol != "" {
		q = q.Where("symbol = ?", symbol)
	}
	var out []RunModel
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
