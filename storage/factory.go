package storage

import (
	"fmt"

	"go.uber.org/zap"

	"shortlist/config"
	"shortlist/storage/driver"
)

// NewStorage 根据配置创建存储实例
func NewStorage(cfg *config.StorageConfig, logger *zap.Logger) (Storage, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("storage", string(cfg.Type)))

	switch cfg.Type {
	case config.StorageTypeLocal:
		return driver.NewLocalStorage(cfg, logger)
	case config.StorageTypeRemote:
		return driver.NewRemoteStorage(cfg, logger)
	case config.StorageTypeMySQL:
		return driver.NewMySQLStorage(cfg)
	case config.StorageTypeSQLite:
		return driver.NewSQLiteStorage(cfg)
	case config.StorageTypePostgres:
		return driver.NewPostgresStorage(cfg)
	default:
		return nil, fmt.Errorf("不支持的存储类型: %s", cfg.Type)
	}
}

// NewCatalog 远程存储自带目录接口，其余类型读取本地目录文件
func NewCatalog(cfg *config.StorageConfig, store Storage) Catalog {
	if c, ok := store.(Catalog); ok {
		return c
	}
	return driver.NewFileCatalog(cfg.CatalogPath)
}

// RefetchOnFilter 打开筛选时是否需要重新拉取，仅远程存储需要
func RefetchOnFilter(cfg *config.StorageConfig) bool {
	return cfg.Type == config.StorageTypeRemote && cfg.Remote.RefetchOnFilter
}
