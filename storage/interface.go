package storage

import (
	"context"

	"shortlist/model"
)

// Storage 收藏列表的持久化接口
type Storage interface {
	// Load 读取全部已收藏的工作室ID
	Load(ctx context.Context) ([]string, error)

	// Add 收藏工作室
	Add(ctx context.Context, id string) error

	// Remove 取消收藏
	Remove(ctx context.Context, id string) error

	// 关闭存储
	Close() error
}

// Catalog 工作室目录
type Catalog interface {
	// Listings 返回全部工作室
	Listings(ctx context.Context) ([]*model.Studio, error)
}
