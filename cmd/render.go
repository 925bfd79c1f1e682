package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/skratchdot/open-golang/open"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"shortlist/config"
	"shortlist/dom"
	"shortlist/shortlist"
	"shortlist/storage"
)

var (
	renderPage   string
	renderOut    string
	renderFilter bool
	renderOpen   bool
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "按当前收藏状态渲染页面",
	Long: `读取页面（未指定时根据工作室目录生成），用收藏状态更新按钮和卡片，
写到 --out 指定的文件或标准输出。`,
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVar(&renderPage, "page", "", "输入页面")
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "输出文件，默认标准输出")
	renderCmd.Flags().BoolVar(&renderFilter, "filter", false, "只显示已收藏的工作室")
	renderCmd.Flags().BoolVar(&renderOpen, "open", false, "渲染后在浏览器中打开")
}

// session 命令行使用的一次性控制器
type session struct {
	cfg        *config.AppConfig
	store      storage.Storage
	doc        *dom.Document
	controller *shortlist.Controller
}

func (s *session) Close() error { return s.store.Close() }

// pageSource 为会话构造页面
type pageSource func(ctx context.Context, cfg *config.StorageConfig, store storage.Storage) (*dom.Document, error)

func pageFile(path string) pageSource {
	return func(context.Context, *config.StorageConfig, storage.Storage) (*dom.Document, error) {
		return dom.Open(path)
	}
}

func emptyPage(context.Context, *config.StorageConfig, storage.Storage) (*dom.Document, error) {
	return dom.NewPage(nil), nil
}

func loadConfig() (*config.AppConfig, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Storage.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// 加载配置和存储，构造页面并初始化控制器
func openSession(ctx context.Context, source pageSource) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	store, err := storage.NewStorage(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("创建存储失败: %w", err)
	}

	doc, err := source(ctx, &cfg.Storage, store)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	controller := shortlist.New(store, doc,
		shortlist.WithLogger(logger),
		shortlist.WithRefetchOnFilter(storage.RefetchOnFilter(&cfg.Storage)),
	)
	if err := controller.Init(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}

	return &session{cfg: cfg, store: store, doc: doc, controller: controller}, nil
}

func catalogPage(ctx context.Context, cfg *config.StorageConfig, store storage.Storage) (*dom.Document, error) {
	studios, err := storage.NewCatalog(cfg, store).Listings(ctx)
	if err != nil {
		return nil, fmt.Errorf("加载工作室目录失败: %w", err)
	}
	return dom.NewPage(studios), nil
}

func runRender(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	source := pageSource(catalogPage)
	if renderPage != "" {
		source = pageFile(renderPage)
	}
	s, err := openSession(ctx, source)
	if err != nil {
		return err
	}
	defer s.Close()

	if renderFilter {
		if !s.doc.ClickFilter(ctx) {
			return fmt.Errorf("页面中没有 #%s 元素", dom.FilterID)
		}
	}

	out := renderOut
	if out == "" && renderOpen {
		out = filepath.Join(os.TempDir(), "shortlist.html")
	}
	if out == "" {
		return s.doc.Render(cmd.OutOrStdout())
	}

	if err := s.doc.WriteFile(out); err != nil {
		return fmt.Errorf("写入页面失败: %w", err)
	}
	logger.Info("页面已生成", zap.String("path", out), zap.Int("shortlisted", s.controller.Snapshot().Shortlisted.Len()))

	if renderOpen {
		if err := open.Run(out); err != nil {
			return fmt.Errorf("打开浏览器失败: %w", err)
		}
	}
	return nil
}
