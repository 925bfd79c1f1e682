package driver

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"shortlist/config"
)

// LocalStorage 模拟浏览器 localStorage 的键值文件存储。
// 收藏列表以 JSON 字符串数组的形式保存在一个键下，每次写入整体覆盖。
type LocalStorage struct {
	mu       sync.Mutex
	filePath string
	key      string
	logger   *zap.Logger
}

// NewLocalStorage 创建本地存储实例
func NewLocalStorage(cfg *config.StorageConfig, logger *zap.Logger) (*LocalStorage, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	key := cfg.StorageKey
	if key == "" {
		key = config.DefaultStorageKey
	}

	// 确保存储目录存在
	if err := os.MkdirAll(filepath.Dir(cfg.LocalPath), 0755); err != nil {
		return nil, err
	}

	return &LocalStorage{
		filePath: cfg.LocalPath,
		key:      key,
		logger:   logger,
	}, nil
}

// Load 读取收藏列表，数据缺失或损坏时视为空
func (s *LocalStorage) Load(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readIDs(), nil
}

// Add 收藏工作室
func (s *LocalStorage) Add(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.readIDs()
	for _, existing := range ids {
		if existing == id {
			return s.writeIDs(ids)
		}
	}
	return s.writeIDs(append(ids, id))
}

// Remove 取消收藏
func (s *LocalStorage) Remove(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.readIDs()
	kept := ids[:0]
	for _, existing := range ids {
		if existing != id {
			kept = append(kept, existing)
		}
	}
	return s.writeIDs(kept)
}

// GetItem 读取任意键的原始值
func (s *LocalStorage) GetItem(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.readEntries()[key]
	return v, ok
}

// Close 关闭存储
func (s *LocalStorage) Close() error {
	return nil
}

func (s *LocalStorage) readIDs() []string {
	raw, ok := s.readEntries()[s.key]
	if !ok || raw == "" {
		return []string{}
	}

	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		s.logger.Warn("本地收藏数据格式错误，按空列表处理",
			zap.String("key", s.key), zap.Error(err))
		return []string{}
	}
	return ids
}

func (s *LocalStorage) writeIDs(ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	value, err := json.Marshal(ids)
	if err != nil {
		return err
	}

	entries := s.readEntries()
	entries[s.key] = string(value)

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}

	// 先写临时文件再替换，避免写一半的文件
	tmp := s.filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.filePath)
}

func (s *LocalStorage) readEntries() map[string]string {
	entries := make(map[string]string)

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("读取本地存储失败", zap.Error(err))
		}
		return entries
	}

	if err := json.Unmarshal(data, &entries); err != nil {
		s.logger.Warn("本地存储文件损坏，按空处理", zap.Error(err))
		return make(map[string]string)
	}
	return entries
}
