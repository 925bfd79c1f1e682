package ui

import (
	"context"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/atotto/clipboard"
	"go.uber.org/zap"

	"shortlist/config"
	"shortlist/model"
	"shortlist/shortlist"
	"shortlist/ui/component"
)

const (
	filterLabelInactive = "只看收藏"
	filterLabelActive   = "显示全部"
)

// ClipboardSetter 剪贴板写入接口
type ClipboardSetter interface {
	WriteAll(text string) error
}

type systemClipboard struct{}

func (systemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

// Window 应用主窗口，实现 shortlist.View
type Window struct {
	fyne.Window
	app            fyne.App
	studioList     *component.StudioList
	filterBtn      *widget.Button
	settingsPanel  *component.SettingsPanel
	contentTabs    *container.AppTabs
	onSaveSettings func(*config.StorageConfig)
	clipboard      ClipboardSetter
	logger         *zap.Logger

	mu           sync.Mutex
	handler      shortlist.EventHandler
	filterActive bool
}

var _ shortlist.View = (*Window)(nil)

// NewWindow 创建主窗口
func NewWindow(
	app fyne.App,
	cfg *config.StorageConfig,
	clipboard ClipboardSetter,
	logger *zap.Logger,
	onSaveSettings func(*config.StorageConfig),
) *Window {
	win := app.NewWindow("工作室收藏")
	win.Resize(fyne.NewSize(640, 480))

	if clipboard == nil {
		clipboard = systemClipboard{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	w := &Window{
		Window:         win,
		app:            app,
		clipboard:      clipboard,
		logger:         logger,
		onSaveSettings: onSaveSettings,
	}

	w.initUI(cfg)

	return w
}

// 初始化UI
func (w *Window) initUI(cfg *config.StorageConfig) {
	w.studioList = component.NewStudioList(
		func(id string) {
			w.dispatch(shortlist.Event{Kind: shortlist.EventToggle, ID: id})
		},
		w.copyPhones,
	)

	w.filterBtn = widget.NewButtonWithIcon(filterLabelInactive, theme.VisibilityIcon(), func() {
		w.dispatch(shortlist.Event{Kind: shortlist.EventFilter})
	})

	studioContent := container.NewBorder(
		container.NewHBox(w.filterBtn),
		nil, nil, nil,
		w.studioList,
	)

	w.settingsPanel = component.NewSettingsPanel(w.Window, cfg, w.onSaveSettings)

	w.contentTabs = container.NewAppTabs(
		container.NewTabItemWithIcon("工作室", theme.HomeIcon(), studioContent),
		container.NewTabItemWithIcon("设置", theme.SettingsIcon(), w.settingsPanel),
	)

	w.SetContent(w.contentTabs)
}

// 事件交给控制器处理，不阻塞界面线程
func (w *Window) dispatch(ev shortlist.Event) {
	w.mu.Lock()
	h := w.handler
	w.mu.Unlock()
	if h == nil {
		return
	}
	go h.HandleEvent(context.Background(), ev)
}

// 复制联系电话
func (w *Window) copyPhones(studio *model.Studio) {
	if studio == nil || len(studio.Phones) == 0 {
		return
	}
	text := strings.Join(studio.Phones, "\n")
	if err := w.clipboard.WriteAll(text); err != nil {
		w.logger.Warn("复制电话失败", zap.String("studio", studio.ID), zap.Error(err))
		fyne.Do(func() { dialog.ShowError(err, w.Window) })
		return
	}
	w.logger.Debug("已复制电话", zap.String("studio", studio.ID))
}

// SetStudios 替换工作室列表
func (w *Window) SetStudios(studios []*model.Studio) {
	w.studioList.SetStudios(studios)
}

// StudioList 工作室列表组件
func (w *Window) StudioList() *component.StudioList { return w.studioList }

// FilterButton 筛选按钮
func (w *Window) FilterButton() *widget.Button { return w.filterBtn }

// FilterActive 筛选按钮当前是否处于激活样式
func (w *Window) FilterActive() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.filterActive
}

// Bind 注册事件处理器
func (w *Window) Bind(h shortlist.EventHandler) {
	w.mu.Lock()
	w.handler = h
	w.mu.Unlock()
}

// CardIDs 当前所有工作室卡片的ID
func (w *Window) CardIDs() []string { return w.studioList.IDs() }

// ToggleIDs 每张卡片都带一个收藏按钮
func (w *Window) ToggleIDs() []string { return w.studioList.IDs() }

// SetCardHidden 隐藏或显示卡片
func (w *Window) SetCardHidden(id string, hidden bool) {
	w.studioList.SetHidden(id, hidden)
}

// SetToggleShortlisted 更新收藏按钮
func (w *Window) SetToggleShortlisted(id string, shortlisted bool) {
	w.studioList.SetShortlisted(id, shortlisted)
}

// SetTogglePending 请求进行中禁用收藏按钮
func (w *Window) SetTogglePending(id string, pending bool) {
	w.studioList.SetPending(id, pending)
}

// SetFilterActive 更新筛选按钮样式
func (w *Window) SetFilterActive(active bool) {
	w.mu.Lock()
	if w.filterActive == active {
		w.mu.Unlock()
		return
	}
	w.filterActive = active
	w.mu.Unlock()

	fyne.Do(func() {
		if active {
			w.filterBtn.SetText(filterLabelActive)
			w.filterBtn.Importance = widget.WarningImportance
		} else {
			w.filterBtn.SetText(filterLabelInactive)
			w.filterBtn.Importance = widget.MediumImportance
		}
		w.filterBtn.Refresh()
	})
}
