package material

import (
	"errors"
	"fmt"
)

// Property 温度相关的物性参数，theta 单位 ℃
type Property interface {
	Value(theta float64) float64
}

// Constant 与温度无关的物性
type Constant float64

func (c Constant) Value(float64) float64 {
	return float64(c)
}

// Func 任意温度函数
type Func func(theta float64) float64

func (f Func) Value(theta float64) float64 {
	return f(theta)
}

// Set 导热系数 λ (W/mK)、密度 ρ (kg/m3)、比热容 c (J/kgK)
type Set struct {
	Name         string
	Conductivity Property
	Density      Property
	SpecificHeat Property
}

var ErrIncomplete = errors.New("material: incomplete property set")

func ConstantSet(lambda, rho, c float64) Set {
	return Set{
		Name:         "constant",
		Conductivity: Constant(lambda),
		Density:      Constant(rho),
		SpecificHeat: Constant(c),
	}
}

func (s Set) Validate() error {
	if s.Conductivity == nil || s.Density == nil || s.SpecificHeat == nil {
		return fmt.Errorf("%w: %q", ErrIncomplete, s.Name)
	}
	return nil
}

// Diffusivity α = λ/(ρc)
func (s Set) Diffusivity(theta float64) float64 {
	return s.Conductivity.Value(theta) / (s.Density.Value(theta) * s.SpecificHeat.Value(theta))
}
