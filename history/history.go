/**
 *
 * 温度场历史记录
 * 利用数组实现的环形队列，每个元素为一个时间步的温度场。
 * 容量为 0 时不限长度，保存全部时间步；容量大于 0 时只保留最近的若干个时间步，用于实时推送。
 *
 */

package history

import (
	"firecalc/model"

	"gonum.org/v1/gonum/floats"
)

type History struct {
	frames []model.Frame
	start  int // 环形队列头部下标
	size   int

	// 0 表示不限长度
	capacity int
}

// New 保存全部时间步
func New() *History {
	return &History{}
}

// NewWindow 只保留最近 capacity 个时间步
func NewWindow(capacity int) *History {
	if capacity <= 0 {
		return New()
	}
	return &History{
		frames:   make([]model.Frame, capacity),
		capacity: capacity,
	}
}

func (h *History) Size() int {
	return h.size
}

func (h *History) IsEmpty() bool {
	return h.size == 0
}

func (h *History) IsFull() bool {
	return h.capacity > 0 && h.size == h.capacity
}

func (h *History) index(i int) int {
	if h.capacity == 0 {
		return i
	}
	return (h.start + i) % h.capacity
}

// Append 在队列尾部增加一个时间步，温度场会被复制
func (h *History) Append(step int, t float64, field []float64) {
	frame := model.Frame{
		Step:  step,
		Time:  t,
		Field: append([]float64(nil), field...),
	}
	if h.capacity == 0 {
		h.frames = append(h.frames, frame)
		h.size++
		return
	}
	if h.IsFull() {
		h.RemoveFirst()
	}
	h.frames[h.index(h.size)] = frame
	h.size++
}

// RemoveFirst 删除最早的时间步
func (h *History) RemoveFirst() {
	if h.size == 0 {
		return
	}
	if h.capacity == 0 {
		h.frames[0] = model.Frame{}
		h.frames = h.frames[1:]
		h.size--
		return
	}
	h.frames[h.start] = model.Frame{}
	h.start = (h.start + 1) % h.capacity
	h.size--
}

// Frame 获取第 i 个保存的时间步
func (h *History) Frame(i int) model.Frame {
	return h.frames[h.index(i)]
}

// Get 获取第 i 个时间步中节点 node 的温度
func (h *History) Get(i, node int) float64 {
	return h.frames[h.index(i)].Field[node]
}

func (h *History) First() (model.Frame, bool) {
	if h.size == 0 {
		return model.Frame{}, false
	}
	return h.Frame(0), true
}

func (h *History) Last() (model.Frame, bool) {
	if h.size == 0 {
		return model.Frame{}, false
	}
	return h.Frame(h.size - 1), true
}

// Traverse 正向遍历
func (h *History) Traverse(f func(i int, frame model.Frame)) {
	for i := 0; i < h.size; i++ {
		f(i, h.Frame(i))
	}
}

// Frames 按时间顺序返回全部时间步
func (h *History) Frames() []model.Frame {
	res := make([]model.Frame, 0, h.size)
	h.Traverse(func(_ int, frame model.Frame) {
		res = append(res, frame)
	})
	return res
}

// Node 节点 node 的温度时程
func (h *History) Node(node int) []float64 {
	res := make([]float64, h.size)
	for i := 0; i < h.size; i++ {
		res[i] = h.Get(i, node)
	}
	return res
}

// Peak 节点 node 在全部时间步中的最高温度
func (h *History) Peak(node int) float64 {
	if h.size == 0 {
		return 0
	}
	return floats.Max(h.Node(node))
}

// Lowest 节点 node 在全部时间步中的最低温度
func (h *History) Lowest(node int) float64 {
	if h.size == 0 {
		return 0
	}
	return floats.Min(h.Node(node))
}
