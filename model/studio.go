package model

import (
	"encoding/json"
	"time"
)

// TimestampLayout 目录中 created_at 的写入格式，不带时区
const TimestampLayout = "2006-01-02T15:04:05.000000"

// Studio 工作室列表项。created_at 原样保存为字符串，不同来源的时间格式不一致。
type Studio struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Rating      float64   `json:"rating"`
	Description string    `json:"description"`
	Projects    int       `json:"projects"`
	Years       int       `json:"years"`
	Price       string    `json:"price"`
	Phones      []string  `json:"phones"`
	CreatedAt   string    `json:"created_at,omitempty"`
}

// ShortlistEntry 数据库中的一条收藏记录
type ShortlistEntry struct {
	StudioID  string    `gorm:"primaryKey;size:64"`
	CreatedAt time.Time `gorm:"index"`
}

// APIResponse 远程接口统一响应
type APIResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
	Message string          `json:"message,omitempty"`
	Count   int             `json:"count,omitempty"`
}
