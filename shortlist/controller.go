package shortlist

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrToggleInFlight 同一工作室已有未完成的收藏请求
	ErrToggleInFlight = errors.New("收藏请求仍在处理中")
	// ErrEmptyID 工作室ID为空
	ErrEmptyID = errors.New("工作室ID为空")
)

// Backend 收藏状态的持久化后端
type Backend interface {
	Load(ctx context.Context) ([]string, error)
	Add(ctx context.Context, id string) error
	Remove(ctx context.Context, id string) error
}

// State 控制器持有的全部状态
type State struct {
	Shortlisted  Set
	FilterActive bool
}

// Option 控制器选项
type Option func(*Controller)

// WithLogger 设置日志
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics 设置指标
func WithMetrics(m *Metrics) Option {
	return func(c *Controller) { c.metrics = m }
}

// WithRefetchOnFilter 打开筛选前先从后端重新拉取收藏列表
func WithRefetchOnFilter(enabled bool) Option {
	return func(c *Controller) { c.refetchOnFilter = enabled }
}

// Controller 收藏控制器：维护内存状态，驱动视图并与后端同步
type Controller struct {
	backend         Backend
	view            View
	logger          *zap.Logger
	metrics         *Metrics
	refetchOnFilter bool

	mu       sync.Mutex
	state    State
	inflight map[string]struct{}
	loads    singleflight.Group
}

// New 创建控制器
func New(backend Backend, view View, opts ...Option) *Controller {
	c := &Controller{
		backend:  backend,
		view:     view,
		logger:   zap.NewNop(),
		state:    State{Shortlisted: NewSet()},
		inflight: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Init 绑定视图事件，然后从后端加载初始收藏列表并刷新界面。
// 加载失败时保持空集合，错误已记录并返回给调用方。
func (c *Controller) Init(ctx context.Context) error {
	c.view.Bind(c)

	err := c.refresh(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.updateShortlistButtonsLocked()
	c.updateStudioDisplayLocked()
	return err
}

// HandleEvent 视图委托的统一事件入口
func (c *Controller) HandleEvent(ctx context.Context, ev Event) {
	switch ev.Kind {
	case EventToggle:
		_, _ = c.HandleShortlistToggle(ctx, ev.ID)
	case EventFilter:
		_, _ = c.HandleShortlistFilter(ctx)
	default:
		c.logger.Warn("未知的界面事件", zap.Int("kind", int(ev.Kind)))
	}
}

// HandleShortlistToggle 切换工作室的收藏状态，返回结算后的收藏状态。
// 只有后端确认成功才提交；失败时状态和界面保持请求前的样子。
func (c *Controller) HandleShortlistToggle(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, ErrEmptyID
	}

	c.mu.Lock()
	current := c.state.Shortlisted.Has(id)
	if _, busy := c.inflight[id]; busy {
		c.mu.Unlock()
		c.metrics.observeToggle(actionName(!current), outcomeInFlight)
		c.logger.Debug("忽略重复的收藏请求", zap.String("studio", id))
		return current, ErrToggleInFlight
	}
	add := !current
	c.inflight[id] = struct{}{}
	c.view.SetTogglePending(id, true)
	c.mu.Unlock()

	var err error
	if add {
		err = c.backend.Add(ctx, id)
	} else {
		err = c.backend.Remove(ctx, id)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inflight, id)
	c.view.SetTogglePending(id, false)

	action := actionName(add)
	if err != nil {
		c.metrics.observeToggle(action, outcomeFailed)
		c.logger.Error("收藏操作失败，保持原状态",
			zap.String("studio", id),
			zap.String("action", action),
			zap.Error(err))
		has := c.state.Shortlisted.Has(id)
		c.view.SetToggleShortlisted(id, has)
		if c.state.FilterActive {
			c.updateStudioDisplayLocked()
		}
		return has, fmt.Errorf("%s %s: %w", action, id, err)
	}

	if add {
		c.state.Shortlisted.Add(id)
	} else {
		c.state.Shortlisted.Remove(id)
	}
	c.metrics.observeToggle(action, outcomeOK)
	c.metrics.setSize(c.state.Shortlisted.Len())
	c.logger.Debug("收藏状态已更新",
		zap.String("studio", id),
		zap.Bool("shortlisted", add))

	c.view.SetToggleShortlisted(id, add)
	if c.state.FilterActive {
		c.updateStudioDisplayLocked()
	}
	return add, nil
}

// HandleShortlistFilter 切换“只看收藏”筛选，返回切换后的筛选状态。
// 打开筛选且启用了重新拉取时，先同步后端的收藏列表；拉取失败沿用当前集合。
func (c *Controller) HandleShortlistFilter(ctx context.Context) (bool, error) {
	c.mu.Lock()
	c.state.FilterActive = !c.state.FilterActive
	active := c.state.FilterActive
	c.view.SetFilterActive(active)
	c.mu.Unlock()

	var err error
	if active && c.refetchOnFilter {
		if err = c.refresh(ctx); err == nil {
			c.mu.Lock()
			c.updateShortlistButtonsLocked()
			c.mu.Unlock()
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.updateStudioDisplayLocked()
	return c.state.FilterActive, err
}

// UpdateStudioDisplay 按当前状态重算所有卡片的可见性和筛选按钮样式
func (c *Controller) UpdateStudioDisplay() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updateStudioDisplayLocked()
}

// UpdateShortlistButtons 按当前集合同步所有收藏按钮
func (c *Controller) UpdateShortlistButtons() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updateShortlistButtonsLocked()
}

// Snapshot 返回状态副本
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Shortlisted:  c.state.Shortlisted.Clone(),
		FilterActive: c.state.FilterActive,
	}
}

// Pending 工作室是否有请求在处理中
func (c *Controller) Pending(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.inflight[id]
	return ok
}

func (c *Controller) refresh(ctx context.Context) error {
	v, err, _ := c.loads.Do("load", func() (interface{}, error) {
		return c.backend.Load(ctx)
	})
	if err != nil {
		c.metrics.observeLoad(outcomeFailed)
		c.logger.Error("加载收藏列表失败", zap.Error(err))
		return fmt.Errorf("加载收藏列表失败: %w", err)
	}

	ids, _ := v.([]string)
	c.mu.Lock()
	c.state.Shortlisted = NewSet(ids...)
	n := c.state.Shortlisted.Len()
	c.mu.Unlock()

	c.metrics.observeLoad(outcomeOK)
	c.metrics.setSize(n)
	c.logger.Info("收藏列表已加载", zap.Int("count", n))
	return nil
}

func (c *Controller) updateStudioDisplayLocked() {
	for _, id := range c.view.CardIDs() {
		hidden := c.state.FilterActive && !c.state.Shortlisted.Has(id)
		c.view.SetCardHidden(id, hidden)
	}
	c.view.SetFilterActive(c.state.FilterActive)
}

func (c *Controller) updateShortlistButtonsLocked() {
	for _, id := range c.view.ToggleIDs() {
		c.view.SetToggleShortlisted(id, c.state.Shortlisted.Has(id))
	}
}

func actionName(add bool) string {
	if add {
		return "add"
	}
	return "remove"
}
