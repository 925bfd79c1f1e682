package shortlist

import "sort"

// Set 收藏ID集合，顺序无关
type Set map[string]struct{}

// NewSet 由ID列表构建集合，空ID被忽略
func NewSet(ids ...string) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Has 是否已收藏
func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Add 加入集合
func (s Set) Add(id string) {
	if id == "" {
		return
	}
	s[id] = struct{}{}
}

// Remove 移出集合
func (s Set) Remove(id string) {
	delete(s, id)
}

func (s Set) Len() int {
	return len(s)
}

// Sorted 返回排序后的ID，便于序列化和比较
func (s Set) Sorted() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Clone 复制集合
func (s Set) Clone() Set {
	c := make(Set, len(s))
	for id := range s {
		c[id] = struct{}{}
	}
	return c
}

// Equal 两个集合元素完全相同
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for id := range s {
		if !other.Has(id) {
			return false
		}
	}
	return true
}
