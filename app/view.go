package app

import (
	"sync/atomic"

	"shortlist/shortlist"
)

// controllerView 把窗口交给一个控制器使用。切换存储后旧控制器的视图被断开，
// 它之后的写入和绑定都被丢弃，不会落到新卡片上。
type controllerView struct {
	shortlist.View
	detached atomic.Bool
}

func newControllerView(v shortlist.View) *controllerView {
	return &controllerView{View: v}
}

func (v *controllerView) detach() { v.detached.Store(true) }

func (v *controllerView) Bind(h shortlist.EventHandler) {
	if v.detached.Load() {
		return
	}
	v.View.Bind(h)
}

func (v *controllerView) SetCardHidden(id string, hidden bool) {
	if v.detached.Load() {
		return
	}
	v.View.SetCardHidden(id, hidden)
}

func (v *controllerView) SetToggleShortlisted(id string, shortlisted bool) {
	if v.detached.Load() {
		return
	}
	v.View.SetToggleShortlisted(id, shortlisted)
}

func (v *controllerView) SetTogglePending(id string, pending bool) {
	if v.detached.Load() {
		return
	}
	v.View.SetTogglePending(id, pending)
}

func (v *controllerView) SetFilterActive(active bool) {
	if v.detached.Load() {
		return
	}
	v.View.SetFilterActive(active)
}
