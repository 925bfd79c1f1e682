package driver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"shortlist/model"
)

const defaultRating = 4.0

// ErrInvalidListing 新建工作室缺少必填字段
var ErrInvalidListing = errors.New("工作室信息不完整")

// catalogFile 目录文件结构，shortlisted 字段原样保留
type catalogFile struct {
	Listings    []*model.Studio `json:"listings"`
	Shortlisted []string        `json:"shortlisted"`
}

// FileCatalog 基于 JSON 文件的工作室目录
type FileCatalog struct {
	mu       sync.Mutex
	filePath string
	now      func() time.Time
}

// NewFileCatalog 创建目录实例
func NewFileCatalog(path string) *FileCatalog {
	return &FileCatalog{filePath: path, now: time.Now}
}

// Listings 读取全部工作室，文件不存在时为空
func (c *FileCatalog) Listings(ctx context.Context) ([]*model.Studio, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := c.read()
	if err != nil {
		return nil, err
	}
	return data.Listings, nil
}

// AddListing 新建工作室，生成ID并写回文件
func (c *FileCatalog) AddListing(ctx context.Context, studio *model.Studio) (*model.Studio, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateListing(studio); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := c.read()
	if err != nil {
		return nil, err
	}

	created := *studio
	created.ID = uuid.NewString()
	created.CreatedAt = c.now().Format(model.TimestampLayout)
	if created.Rating == 0 {
		created.Rating = defaultRating
	}
	data.Listings = append(data.Listings, &created)

	if err := c.write(data); err != nil {
		return nil, err
	}
	return &created, nil
}

func validateListing(s *model.Studio) error {
	switch {
	case s == nil:
		return ErrInvalidListing
	case s.Name == "":
		return fmt.Errorf("%w: name", ErrInvalidListing)
	case s.Description == "":
		return fmt.Errorf("%w: description", ErrInvalidListing)
	case s.Projects <= 0:
		return fmt.Errorf("%w: projects", ErrInvalidListing)
	case s.Years <= 0:
		return fmt.Errorf("%w: years", ErrInvalidListing)
	case s.Price == "":
		return fmt.Errorf("%w: price", ErrInvalidListing)
	case len(s.Phones) == 0:
		return fmt.Errorf("%w: phones", ErrInvalidListing)
	}
	return nil
}

func (c *FileCatalog) read() (*catalogFile, error) {
	data := &catalogFile{Listings: []*model.Studio{}, Shortlisted: []string{}}

	raw, err := os.ReadFile(c.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return data, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(raw, data); err != nil {
		return nil, fmt.Errorf("解析目录文件失败: %w", err)
	}
	if data.Shortlisted == nil {
		data.Shortlisted = []string{}
	}
	return data, nil
}

func (c *FileCatalog) write(data *catalogFile) error {
	if err := os.MkdirAll(filepath.Dir(c.filePath), 0755); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.filePath, raw, 0644)
}
