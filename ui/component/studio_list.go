package component

import (
	"fmt"
	"image/color"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"shortlist/model"
)

const (
	labelShortlisted = "已收藏"
	labelDefault     = "收藏"
)

// StudioCard 单个工作室卡片
type StudioCard struct {
	Studio  *model.Studio
	Root    *fyne.Container
	Toggle  *widget.Button
	CopyBtn *widget.Button

	shortlisted bool
	hidden      bool
}

// StudioList 工作室列表组件
type StudioList struct {
	*container.Scroll
	box      *fyne.Container
	mu       sync.Mutex
	cards    map[string]*StudioCard
	order    []string
	onToggle func(id string)
	onCopy   func(studio *model.Studio)
}

// NewStudioList 创建工作室列表
func NewStudioList(onToggle func(string), onCopy func(*model.Studio)) *StudioList {
	l := &StudioList{
		box:      container.NewVBox(),
		cards:    make(map[string]*StudioCard),
		onToggle: onToggle,
		onCopy:   onCopy,
	}
	l.Scroll = container.NewVScroll(l.box)
	return l
}

// SetStudios 替换全部卡片。数据立即生效，控件树在主线程重建。
func (l *StudioList) SetStudios(studios []*model.Studio) {
	cards := make(map[string]*StudioCard, len(studios))
	order := make([]string, 0, len(studios))
	objects := make([]fyne.CanvasObject, 0, len(studios))
	for _, s := range studios {
		if s == nil || s.ID == "" {
			continue
		}
		if _, dup := cards[s.ID]; dup {
			continue
		}
		card := l.newCard(s)
		cards[s.ID] = card
		order = append(order, s.ID)
		objects = append(objects, card.Root)
	}

	l.mu.Lock()
	l.cards = cards
	l.order = order
	l.mu.Unlock()

	fyne.Do(func() {
		l.box.Objects = objects
		l.box.Refresh()
	})
}

// IDs 按显示顺序返回卡片ID
func (l *StudioList) IDs() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.order...)
}

// Card 按ID取卡片
func (l *StudioList) Card(id string) *StudioCard {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cards[id]
}

// Shortlisted 卡片当前显示的收藏状态
func (l *StudioList) Shortlisted(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	card, ok := l.cards[id]
	return ok && card.shortlisted
}

// Hidden 卡片当前是否隐藏
func (l *StudioList) Hidden(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	card, ok := l.cards[id]
	return ok && card.hidden
}

// SetHidden 隐藏或显示卡片
func (l *StudioList) SetHidden(id string, hidden bool) {
	l.mu.Lock()
	card, ok := l.cards[id]
	if !ok || card.hidden == hidden {
		l.mu.Unlock()
		return
	}
	card.hidden = hidden
	l.mu.Unlock()

	fyne.Do(func() {
		if hidden {
			card.Root.Hide()
		} else {
			card.Root.Show()
		}
	})
}

// SetShortlisted 更新收藏按钮的图标和文字
func (l *StudioList) SetShortlisted(id string, shortlisted bool) {
	l.mu.Lock()
	card, ok := l.cards[id]
	if !ok {
		l.mu.Unlock()
		return
	}
	card.shortlisted = shortlisted
	l.mu.Unlock()

	fyne.Do(func() {
		if shortlisted {
			card.Toggle.SetIcon(theme.ConfirmIcon())
			card.Toggle.SetText(labelShortlisted)
			card.Toggle.Importance = widget.HighImportance
		} else {
			card.Toggle.SetIcon(theme.ContentAddIcon())
			card.Toggle.SetText(labelDefault)
			card.Toggle.Importance = widget.LowImportance
		}
		card.Toggle.Refresh()
	})
}

// SetPending 请求进行中时禁用收藏按钮
func (l *StudioList) SetPending(id string, pending bool) {
	card := l.Card(id)
	if card == nil {
		return
	}
	fyne.Do(func() {
		if pending {
			card.Toggle.Disable()
		} else {
			card.Toggle.Enable()
		}
	})
}

// 创建卡片控件
func (l *StudioList) newCard(s *model.Studio) *StudioCard {
	id := s.ID

	name := widget.NewLabelWithStyle(s.Name, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	details := widget.NewLabel(formatDetails(s))
	details.TextStyle = fyne.TextStyle{Italic: true}
	desc := widget.NewLabel(s.Description)
	desc.Wrapping = fyne.TextWrapWord

	toggle := widget.NewButtonWithIcon(labelDefault, theme.ContentAddIcon(), func() {
		if l.onToggle != nil {
			l.onToggle(id)
		}
	})
	toggle.Importance = widget.LowImportance

	copyBtn := widget.NewButtonWithIcon("", theme.ContentCopyIcon(), func() {
		if l.onCopy != nil {
			l.onCopy(s)
		}
	})
	copyBtn.Importance = widget.LowImportance
	if len(s.Phones) == 0 {
		copyBtn.Disable()
	}

	header := container.NewBorder(
		nil, nil, nil, container.NewHBox(toggle, copyBtn),
		container.NewVBox(name, details),
	)

	return &StudioCard{
		Studio:  s,
		Toggle:  toggle,
		CopyBtn: copyBtn,
		Root: container.NewVBox(
			header,
			desc,
			canvas.NewLine(color.Gray{Y: 200}),
		),
	}
}

// 评分、项目数、年限、价格
func formatDetails(s *model.Studio) string {
	parts := []string{fmt.Sprintf("★ %.1f", s.Rating)}
	if s.Projects > 0 {
		parts = append(parts, fmt.Sprintf("%d 个项目", s.Projects))
	}
	if s.Years > 0 {
		parts = append(parts, fmt.Sprintf("%d 年经验", s.Years))
	}
	if s.Price != "" {
		parts = append(parts, s.Price)
	}
	return strings.Join(parts, " · ")
}
