package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
	"go.uber.org/zap"

	"shortlist/config"
	"shortlist/shortlist"
	"shortlist/storage"
	"shortlist/ui"
)

const loadTimeout = 30 * time.Second

// Application 应用程序核心
type Application struct {
	fyneApp    fyne.App
	configPath string
	logger     *zap.Logger
	metrics    *shortlist.Metrics

	mu         sync.Mutex
	config     *config.AppConfig
	storage    storage.Storage
	controller *shortlist.Controller
	view       *controllerView
	window     *ui.Window
}

// New 创建应用实例
func New(configPath string, logger *zap.Logger, metrics *shortlist.Metrics) (*Application, error) {
	return NewWithApp(fyneapp.NewWithID("io.shortlist.studios"), configPath, logger, metrics)
}

// NewWithApp 使用指定的 fyne 应用创建实例
func NewWithApp(fyneApp fyne.App, configPath string, logger *zap.Logger, metrics *shortlist.Metrics) (*Application, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Storage.Validate(); err != nil {
		return nil, err
	}

	store, err := storage.NewStorage(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("创建存储失败: %w", err)
	}

	a := &Application{
		fyneApp:    fyneApp,
		configPath: configPath,
		logger:     logger,
		metrics:    metrics,
		config:     cfg,
		storage:    store,
	}

	a.window = ui.NewWindow(fyneApp, &cfg.Storage, nil, logger, a.handleSaveSettings)
	a.controller = a.newController(store)

	return a, nil
}

// Controller 当前的收藏控制器
func (a *Application) Controller() *shortlist.Controller {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.controller
}

// Window 主窗口
func (a *Application) Window() *ui.Window { return a.window }

// Start 后台加载工作室目录和收藏列表，返回的通道在加载结束后关闭
func (a *Application) Start() <-chan struct{} {
	a.mu.Lock()
	cfg := a.config.Storage
	store := a.storage
	controller := a.controller
	a.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		a.load(&cfg, store, controller)
	}()
	return done
}

// Run 运行应用，窗口关闭后释放存储
func (a *Application) Run() {
	a.Start()
	a.window.ShowAndRun()

	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.storage.Close(); err != nil {
		a.logger.Warn("关闭存储失败", zap.Error(err))
	}
}

// newController 调用方持有 a.mu 或处于构造阶段
func (a *Application) newController(store storage.Storage) *shortlist.Controller {
	a.view = newControllerView(a.window)
	return shortlist.New(store, a.view,
		shortlist.WithLogger(a.logger),
		shortlist.WithMetrics(a.metrics),
		shortlist.WithRefetchOnFilter(storage.RefetchOnFilter(&a.config.Storage)),
	)
}

// 先填充卡片再初始化控制器，否则初始状态无处渲染
func (a *Application) load(cfg *config.StorageConfig, store storage.Storage, controller *shortlist.Controller) {
	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()

	catalog := storage.NewCatalog(cfg, store)
	studios, err := catalog.Listings(ctx)
	if err != nil {
		a.logger.Error("加载工作室目录失败", zap.Error(err))
		a.showError(err)
	} else {
		a.logger.Info("已加载工作室目录", zap.Int("count", len(studios)))
	}
	// 加载期间存储已被切换，交给新的加载流程
	if a.Controller() != controller {
		return
	}
	a.window.SetStudios(studios)

	if err := controller.Init(ctx); err != nil {
		a.showError(err)
	}
}

func (a *Application) showError(err error) {
	fyne.Do(func() { dialog.ShowError(err, a.window) })
}

// 处理保存设置：保存配置，重建存储和控制器
func (a *Application) handleSaveSettings(newStorageCfg *config.StorageConfig) {
	store, err := storage.NewStorage(newStorageCfg, a.logger)
	if err != nil {
		a.logger.Error("切换存储失败", zap.String("type", string(newStorageCfg.Type)), zap.Error(err))
		a.showError(err)
		return
	}

	a.mu.Lock()
	old := a.storage
	a.config.Storage = *newStorageCfg
	if err := config.Save(a.configPath, a.config); err != nil {
		a.logger.Warn("保存配置失败", zap.Error(err))
	}
	// 先断开旧控制器，点击在新控制器 Init 之前一律忽略
	a.view.detach()
	a.window.Bind(nil)
	a.storage = store
	a.controller = a.newController(store)
	a.mu.Unlock()

	if err := old.Close(); err != nil {
		a.logger.Warn("关闭旧存储失败", zap.Error(err))
	}
	a.logger.Info("存储已切换", zap.String("type", string(newStorageCfg.Type)))

	a.window.SetFilterActive(false)

	a.Start()
}
