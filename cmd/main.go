package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"shortlist/app"
	"shortlist/config"
	"shortlist/shortlist"
)

var (
	configPath  string
	verbose     bool
	metricsAddr string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "shortlist",
	Short: "工作室收藏管理",
	Long:  "收藏工作室、按收藏筛选，并把收藏状态保存到本地文件、远程接口或数据库。",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = newLogger(verbose)
		if err != nil {
			return fmt.Errorf("初始化日志失败: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runGUI,
}

var guiCmd = &cobra.Command{
	Use:   "gui",
	Short: "打开桌面窗口",
	RunE:  runGUI,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "配置文件路径 (默认 "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "输出调试日志")

	for _, cmd := range []*cobra.Command{rootCmd, guiCmd} {
		cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Prometheus 指标监听地址，如 :9090")
	}

	rootCmd.AddCommand(guiCmd, renderCmd, toggleCmd, listCmd, catalogCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}

func runGUI(cmd *cobra.Command, args []string) error {
	addr := metricsAddr
	if addr == "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		addr = cfg.MetricsAddr
	}

	var metrics *shortlist.Metrics
	if addr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics = shortlist.NewMetrics(reg)
		serveMetrics(addr, reg)
	}

	application, err := app.New(configPath, logger, metrics)
	if err != nil {
		logger.Error("创建应用失败", zap.Error(err))
		return err
	}

	application.Run()
	return nil
}

func serveMetrics(addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	go func() {
		logger.Info("指标服务已启动", zap.String("addr", addr))
		if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
			logger.Error("指标服务退出", zap.Error(err))
		}
	}()
}
