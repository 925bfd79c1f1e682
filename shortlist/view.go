package shortlist

import "context"

// EventKind 界面事件类型
type EventKind int

const (
	EventToggle EventKind = iota // 点击收藏按钮
	EventFilter                  // 点击筛选按钮
)

// Event 由视图委托给控制器的单个事件
type Event struct {
	Kind EventKind
	ID   string // 仅 EventToggle 使用
}

// EventHandler 视图的唯一事件入口
type EventHandler interface {
	HandleEvent(ctx context.Context, ev Event)
}

// View 控制器驱动的界面。实现方只负责读写元素，不保存收藏状态；
// 所有写方法在控制器锁内调用，实现方不得回调控制器。
type View interface {
	// Bind 注册事件处理器
	Bind(h EventHandler)

	// CardIDs 当前所有工作室卡片的ID
	CardIDs() []string
	// SetCardHidden 设置卡片是否隐藏
	SetCardHidden(id string, hidden bool)

	// ToggleIDs 当前所有收藏按钮的ID
	ToggleIDs() []string
	// SetToggleShortlisted 设置收藏按钮的样式与图标
	SetToggleShortlisted(id string, shortlisted bool)
	// SetTogglePending 请求进行中的过渡状态
	SetTogglePending(id string, pending bool)

	// SetFilterActive 设置筛选按钮的激活样式
	SetFilterActive(active bool)
}
