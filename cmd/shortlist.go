package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"shortlist/model"
	"shortlist/storage"
	"shortlist/storage/driver"
)

var toggleCmd = &cobra.Command{
	Use:   "toggle <id>...",
	Short: "切换工作室的收藏状态",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runToggle,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "列出已收藏的工作室",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "管理本地工作室目录",
}

var catalogAddCmd = &cobra.Command{
	Use:   "add",
	Short: "添加工作室",
	Args:  cobra.NoArgs,
	RunE:  runCatalogAdd,
}

var newListing model.Studio

func init() {
	f := catalogAddCmd.Flags()
	f.StringVar(&newListing.Name, "name", "", "名称")
	f.StringVar(&newListing.Description, "description", "", "简介")
	f.IntVar(&newListing.Projects, "projects", 0, "项目数")
	f.IntVar(&newListing.Years, "years", 0, "从业年限")
	f.StringVar(&newListing.Price, "price", "", "价格档位，如 $$")
	f.Float64Var(&newListing.Rating, "rating", 0, "评分，默认 4.0")
	f.StringSliceVar(&newListing.Phones, "phone", nil, "联系电话，可重复")

	catalogCmd.AddCommand(catalogAddCmd)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func runToggle(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	s, err := openSession(ctx, emptyPage)
	if err != nil {
		return err
	}
	defer s.Close()

	out := cmd.OutOrStdout()
	for _, id := range args {
		added, err := s.controller.HandleShortlistToggle(ctx, id)
		if err != nil {
			return err
		}
		state := "已取消收藏"
		if added {
			state = "已收藏"
		}
		fmt.Fprintf(out, "%s\t%s\n", id, state)
	}
	logger.Debug("收藏已更新", zap.Strings("shortlisted", s.controller.Snapshot().Shortlisted.Sorted()))
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	s, err := openSession(ctx, emptyPage)
	if err != nil {
		return err
	}
	defer s.Close()

	names := make(map[string]string)
	studios, err := storage.NewCatalog(&s.cfg.Storage, s.store).Listings(ctx)
	if err != nil {
		logger.Warn("加载工作室目录失败", zap.Error(err))
	}
	for _, studio := range studios {
		names[studio.ID] = studio.Name
	}

	out := cmd.OutOrStdout()
	for _, id := range s.controller.Snapshot().Shortlisted.Sorted() {
		fmt.Fprintf(out, "%s\t%s\n", id, names[id])
	}
	return nil
}

func runCatalogAdd(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	listing := newListing
	created, err := driver.NewFileCatalog(cfg.Storage.CatalogPath).AddListing(ctx, &listing)
	if err != nil {
		return err
	}
	logger.Info("已添加工作室", zap.String("id", created.ID), zap.String("path", cfg.Storage.CatalogPath))
	fmt.Fprintln(cmd.OutOrStdout(), created.ID)
	return nil
}
