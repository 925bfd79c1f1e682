package driver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"shortlist/config"
	"shortlist/model"
)

// ErrRejected 后端返回 success=false
var ErrRejected = errors.New("后端拒绝了请求")

const maxResponseBytes = 4 << 20

// RemoteStorage 通过 HTTP 接口同步收藏列表
type RemoteStorage struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewRemoteStorage 创建远程存储实例
func NewRemoteStorage(cfg *config.StorageConfig, logger *zap.Logger) (*RemoteStorage, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	base := strings.TrimRight(cfg.Remote.BaseURL, "/")
	if base == "" {
		base = config.DefaultBaseURL
	}
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("无效的接口地址: %q", cfg.Remote.BaseURL)
	}

	timeout := cfg.Remote.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &RemoteStorage{
		baseURL: base,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}, nil
}

// Load GET /shortlist，返回已收藏工作室的ID。只解析 id，其余字段不影响结果。
func (s *RemoteStorage) Load(ctx context.Context) ([]string, error) {
	var entries []struct {
		ID string `json:"id"`
	}
	if err := s.do(ctx, http.MethodGet, "/shortlist", &entries); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.ID != "" {
			ids = append(ids, e.ID)
		}
	}
	return ids, nil
}

// Add POST /shortlist/{id}
func (s *RemoteStorage) Add(ctx context.Context, id string) error {
	return s.do(ctx, http.MethodPost, "/shortlist/"+url.PathEscape(id), nil)
}

// Remove DELETE /shortlist/{id}
func (s *RemoteStorage) Remove(ctx context.Context, id string) error {
	return s.do(ctx, http.MethodDelete, "/shortlist/"+url.PathEscape(id), nil)
}

// Listings GET /listings
func (s *RemoteStorage) Listings(ctx context.Context) ([]*model.Studio, error) {
	var studios []*model.Studio
	if err := s.do(ctx, http.MethodGet, "/listings", &studios); err != nil {
		return nil, err
	}
	return studios, nil
}

// Health GET /health
func (s *RemoteStorage) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("健康检查失败: %w", err)
	}
	defer resp.Body.Close()

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&body); err != nil {
		return fmt.Errorf("解析健康检查响应失败: %w", err)
	}
	if resp.StatusCode != http.StatusOK || body.Status != "healthy" {
		return fmt.Errorf("服务状态异常: HTTP %d, status=%q", resp.StatusCode, body.Status)
	}
	return nil
}

// Close 关闭存储
func (s *RemoteStorage) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

// do 发送请求并解析统一响应。错误响应同样按 JSON 解析以取出 error 字段。
func (s *RemoteStorage) do(ctx context.Context, method, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("请求 %s %s 失败: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("读取响应失败: %w", err)
	}
	s.logger.Debug("接口请求完成",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	var env model.APIResponse
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("解析响应失败 (HTTP %d): %w", resp.StatusCode, err)
	}
	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = fmt.Sprintf("HTTP %d", resp.StatusCode)
		}
		return fmt.Errorf("%w: %s", ErrRejected, msg)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("解析响应数据失败: %w", err)
		}
	}
	return nil
}
