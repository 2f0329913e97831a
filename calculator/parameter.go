package calculator

import (
	"math"

	"firecalc/fire"
	"firecalc/material"
)

// Sweep 显式差分中节点的更新方式
type Sweep int

const (
	// SweepInPlace 原地更新：先算受火面节点，再从前往后计算内部节点，
	// 内部节点读取的 j-1 节点已经是本时间步的新值，最后计算背火面节点
	SweepInPlace Sweep = iota
	// SweepSnapshot 双缓冲：所有节点只读取上一时间步的温度场
	SweepSnapshot
)

func (s Sweep) String() string {
	if s == SweepSnapshot {
		return "snapshot"
	}
	return "in_place"
}

// Boundary 一个表面的边界条件
type Boundary struct {
	Gas        fire.Curve // 气体温度 ℃
	Convection float64    // 对流换热系数 W/m2K
	Emissivity float64    // 表面发射率
}

// Parameter 一次计算的全部参数
// 节点 0 为受火面，节点 Nodes-1 为背火面
type Parameter struct {
	Nodes    int
	Dx       float64 // 空间步长 m
	Dt       float64 // 时间步长 s
	Duration float64 // 计算时长 s

	InitialTemperature float64 // 初始均匀温度 ℃
	FloorTemperature   float64 // 显式差分边界节点温度下限 ℃

	Material  material.Set
	Exposed   Boundary
	Unexposed Boundary

	// 仅用于 Gauss-Seidel
	Tolerance     float64
	MaxIterations int

	// 仅用于显式差分
	Sweep Sweep

	// 时间步数上限，0 表示 DefaultMaxSteps
	MaxSteps int
}

const DefaultMaxSteps = 10000000

// Validate 在开始计算前检查参数
func (p *Parameter) Validate() error {
	if p.Nodes < 3 {
		return configError("node count %d, at least 3 nodes required", p.Nodes)
	}
	if !(p.Dx > 0) || !isFinite(p.Dx) {
		return configError("spatial step %v must be positive", p.Dx)
	}
	if !(p.Dt > 0) || !isFinite(p.Dt) {
		return configError("time step %v must be positive", p.Dt)
	}
	if !(p.Duration >= 0) || !isFinite(p.Duration) {
		return configError("duration %v must not be negative", p.Duration)
	}
	maxSteps := p.MaxSteps
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	if steps := math.Ceil(p.Duration/p.Dt - 1e-9); !(steps <= float64(maxSteps)) {
		return configError("duration %v with time step %v needs %v steps, limit %d", p.Duration, p.Dt, steps, maxSteps)
	}
	if !isFinite(p.InitialTemperature) || !isFinite(p.FloorTemperature) {
		return configError("initial temperature %v and floor temperature %v must be finite", p.InitialTemperature, p.FloorTemperature)
	}
	if err := p.Material.Validate(); err != nil {
		return configError("%v", err)
	}
	t0 := p.InitialTemperature
	if v := p.Material.Conductivity.Value(t0); !(v > 0) {
		return configError("conductivity %v at %v℃ must be positive", v, t0)
	}
	if v := p.Material.Density.Value(t0); !(v > 0) {
		return configError("density %v at %v℃ must be positive", v, t0)
	}
	if v := p.Material.SpecificHeat.Value(t0); !(v > 0) {
		return configError("specific heat %v at %v℃ must be positive", v, t0)
	}
	boundaries := []struct {
		name string
		b    Boundary
	}{{"exposed", p.Exposed}, {"unexposed", p.Unexposed}}
	for _, nb := range boundaries {
		name, b := nb.name, nb.b
		if b.Gas == nil {
			return configError("%s boundary has no gas temperature", name)
		}
		if !(b.Convection >= 0) {
			return configError("%s convection coefficient %v must not be negative", name, b.Convection)
		}
		if !(b.Emissivity >= 0 && b.Emissivity <= 1) {
			return configError("%s emissivity %v outside 0..1", name, b.Emissivity)
		}
	}
	if p.Sweep != SweepInPlace && p.Sweep != SweepSnapshot {
		return configError("unknown sweep %d", p.Sweep)
	}
	return nil
}

// Steps 覆盖计算时长所需的时间步数，Validate 保证不超过 MaxSteps
func (p *Parameter) Steps() int {
	return int(math.Ceil(p.Duration/p.Dt - 1e-9))
}

func (p *Parameter) InitialField() []float64 {
	field := make([]float64, p.Nodes)
	for i := range field {
		field[i] = p.InitialTemperature
	}
	return field
}
