package driver

import (
	"context"
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shortlist/config"
	"shortlist/model"
)

// MySQLStorage MySQL存储实现（使用GORM）
type MySQLStorage struct {
	db *gorm.DB
}

// MySQLDSN 构建DSN
func MySQLDSN(cfg config.MySQLConfig) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Database,
	)
}

// NewMySQLStorage 创建MySQL存储实例
func NewMySQLStorage(cfg *config.StorageConfig) (*MySQLStorage, error) {
	db, err := gorm.Open(mysql.Open(MySQLDSN(cfg.MySQL)), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("无法连接到MySQL数据库: %w", err)
	}
	return newGormStorage(db)
}

func newGormStorage(db *gorm.DB) (*MySQLStorage, error) {
	// 自动迁移表结构
	if err := db.AutoMigrate(&model.ShortlistEntry{}); err != nil {
		return nil, fmt.Errorf("迁移表结构失败: %w", err)
	}
	return &MySQLStorage{db: db}, nil
}

// Load 按收藏时间读取全部ID
func (s *MySQLStorage) Load(ctx context.Context) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).
		Model(&model.ShortlistEntry{}).
		Order("created_at ASC").
		Pluck("studio_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Add 已存在时不做任何事
func (s *MySQLStorage) Add(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.ShortlistEntry{StudioID: id}).Error
}

// Remove 取消收藏
func (s *MySQLStorage) Remove(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).
		Delete(&model.ShortlistEntry{}, "studio_id = ?", id).Error
}

// Close 关闭存储
func (s *MySQLStorage) Close() error {
	// 获取底层sql.DB并关闭
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
