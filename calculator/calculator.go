package calculator

import (
	"context"
	"fmt"

	"firecalc/history"
	"firecalc/model"

	log "github.com/sirupsen/logrus"
)

type Method string

const (
	MethodExplicit    Method = model.MethodExplicit
	MethodGaussSeidel Method = model.MethodGaussSeidel
)

// ParseMethod 空字符串返回 def
func ParseMethod(s string, def Method) (Method, error) {
	switch Method(s) {
	case "":
		return def, nil
	case MethodExplicit, MethodGaussSeidel:
		return Method(s), nil
	}
	return "", configError("unknown method %q", s)
}

// Calculator 时间推进的接口定义
type Calculator interface {
	Method() Method
	// 从时刻 t 的温度场 field 推进一个时间步
	Step(step int, t float64, field []float64) ([]float64, error)
}

func NewCalculator(p *Parameter, m Method) (Calculator, error) {
	switch m {
	case MethodExplicit:
		return NewExplicitStepper(p)
	case MethodGaussSeidel:
		return NewGaussSeidelStepper(p)
	}
	return nil, configError("unknown method %q", m)
}

type runOptions struct {
	observer func(model.Frame)
	history  *history.History
}

type Option func(*runOptions)

// WithObserver 每记录一帧温度场调用一次，包括初始帧
func WithObserver(f func(model.Frame)) Option {
	return func(o *runOptions) {
		o.observer = f
	}
}

// WithHistory 指定记录温度场的 History，例如只保留最近若干帧的窗口
func WithHistory(h *history.History) Option {
	return func(o *runOptions) {
		o.history = h
	}
}

// Run 从均匀初始温度场开始计算到 Duration。
// 出错或 ctx 取消时返回已经完成的部分历史和错误
func Run(ctx context.Context, p *Parameter, m Method, opts ...Option) (*history.History, error) {
	o := &runOptions{}
	for _, opt := range opts {
		opt(o)
	}
	h := o.history
	if h == nil {
		h = history.New()
	}

	calc, err := NewCalculator(p, m)
	if err != nil {
		return h, err
	}

	record := func(step int, t float64, field []float64) {
		h.Append(step, t, field)
		if o.observer != nil {
			if f, ok := h.Last(); ok {
				o.observer(f)
			}
		}
	}

	steps := p.Steps()
	logger := log.WithFields(log.Fields{"method": m, "nodes": p.Nodes, "dt": p.Dt, "steps": steps})
	if m == MethodExplicit {
		if stable := StableTimeStep(p); p.Dt > stable {
			logger.WithField("stable_dt", stable).Warn("时间步长超过显式差分稳定步长，结果可能振荡")
		}
	}
	logger.Info("开始计算")

	field := p.InitialField()
	record(0, 0, field)

	t := 0.0
	for step := 1; step <= steps; step++ {
		if err := ctx.Err(); err != nil {
			logger.WithField("step", step).Info("计算已停止")
			return h, fmt.Errorf("run stopped before step %d: %w", step, err)
		}
		next, err := calc.Step(step, t, field)
		if err != nil {
			logger.WithField("step", step).WithError(err).Error("计算失败")
			return h, err
		}
		field = next
		t = float64(step) * p.Dt
		record(step, t, field)
	}

	logger.WithField("surface", field[0]).Info("计算完成")
	return h, nil
}
