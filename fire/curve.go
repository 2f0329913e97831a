// Package fire provides gas temperature histories used as boundary
// conditions. Time is in seconds from ignition, temperatures in ℃.
package fire

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"firecalc/model"
)

const Ambient = 20.0

var ErrUnknownCurve = errors.New("fire: unknown curve kind")

// Curve 气体温度随时间变化的曲线
type Curve interface {
	Temperature(t float64) float64
}

// Constant 恒定气体温度
type Constant float64

func (c Constant) Temperature(float64) float64 {
	return float64(c)
}

// Ramp 从 Ambient 线性升温至 Target 后保持不变，RiseTime 为 0 时为阶跃
type Ramp struct {
	Ambient  float64
	Target   float64
	RiseTime float64
}

func (r Ramp) Temperature(t float64) float64 {
	if t <= 0 {
		if r.RiseTime <= 0 {
			return r.Target
		}
		return r.Ambient
	}
	if t >= r.RiseTime {
		return r.Target
	}
	return r.Ambient + (r.Target-r.Ambient)*t/r.RiseTime
}

// ISO834 标准升温曲线 (BS EN 1991-1-2 3.2.1)
type ISO834 struct{}

func (ISO834) Temperature(t float64) float64 {
	m := math.Max(t, 0) / 60
	return Ambient + 345*math.Log10(8*m+1)
}

// ExternalFire 外部火灾曲线 (BS EN 1991-1-2 3.2.2)
type ExternalFire struct{}

func (ExternalFire) Temperature(t float64) float64 {
	m := math.Max(t, 0) / 60
	return 660*(1-0.687*math.Exp(-0.32*m)-0.313*math.Exp(-3.8*m)) + Ambient
}

// Hydrocarbon 碳氢火灾曲线 (BS EN 1991-1-2 3.2.3)
type Hydrocarbon struct{}

func (Hydrocarbon) Temperature(t float64) float64 {
	m := math.Max(t, 0) / 60
	return 1080*(1-0.325*math.Exp(-0.167*m)-0.675*math.Exp(-2.5*m)) + Ambient
}

// FromSpec 根据请求中的曲线描述构建曲线
func FromSpec(spec model.CurveSpec) (Curve, error) {
	switch strings.ToLower(strings.TrimSpace(spec.Kind)) {
	case "constant":
		return Constant(spec.Temperature), nil
	case "ramp":
		ambient := spec.Ambient
		if ambient == 0 {
			ambient = Ambient
		}
		if spec.RiseTime < 0 {
			return nil, fmt.Errorf("fire: negative ramp rise time %v", spec.RiseTime)
		}
		return Ramp{Ambient: ambient, Target: spec.Temperature, RiseTime: spec.RiseTime}, nil
	case "iso834", "standard":
		return ISO834{}, nil
	case "external":
		return ExternalFire{}, nil
	case "hydrocarbon":
		return Hydrocarbon{}, nil
	case "parametric":
		if spec.Parametric == nil {
			return nil, errors.New("fire: parametric curve without compartment")
		}
		return NewParametric(*spec.Parametric)
	case "table":
		return NewTable(spec.Points)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCurve, spec.Kind)
	}
}
