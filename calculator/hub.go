package calculator

import (
	"context"
	"errors"
	"sync"

	"firecalc/history"
	"firecalc/model"

	log "github.com/sirupsen/logrus"
)

var ErrRunning = errors.New("calculation already running")

// CalcHub 一次后台计算与推送之间的信号
type CalcHub struct {
	// 温度场推送
	Frames chan model.Frame
	// 计算结束，nil 表示正常完成
	Done chan error

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
}

func NewCalcHub(buffer int) *CalcHub {
	return &CalcHub{
		Frames: make(chan model.Frame, buffer),
		Done:   make(chan error, 1),
	}
}

func (ch *CalcHub) Running() bool {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return ch.running
}

// Start 在后台开始计算，每个时间步的温度场写入 Frames。
// window 大于 0 时只在内存中保留最近 window 帧
func (ch *CalcHub) Start(ctx context.Context, p *Parameter, m Method, window int) error {
	ch.mu.Lock()
	if ch.running {
		ch.mu.Unlock()
		return ErrRunning
	}
	ctx, cancel := context.WithCancel(ctx)
	ch.running = true
	ch.cancel = cancel
	ch.mu.Unlock()

	go func() {
		defer cancel()
		push := func(f model.Frame) {
			f.Field = append([]float64(nil), f.Field...)
			select {
			case ch.Frames <- f:
			case <-ctx.Done():
			}
		}
		_, err := Run(ctx, p, m, WithObserver(push), WithHistory(history.NewWindow(window)))

		ch.mu.Lock()
		ch.running = false
		ch.cancel = nil
		ch.mu.Unlock()
		ch.Done <- err
	}()
	return nil
}

// StopSignal 停止正在进行的计算
func (ch *CalcHub) StopSignal() {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	if ch.cancel != nil {
		log.Info("停止计算")
		ch.cancel()
	}
}
