package calculator

import (
	"math"
)

const (
	StefanBoltzmann = 5.67e-8 // W/m2K4
	KelvinOffset    = 273.15
)

func CelsiusToKelvin(t float64) float64 {
	return t + KelvinOffset
}

func KelvinToCelsius(t float64) float64 {
	return t - KelvinOffset
}

// NetHeatFlux 气体传给表面的净热流密度 W/m2，辐射 + 对流，正值表示表面吸热。
// 温度单位 ℃，辐射项按开尔文计算
func NetHeatFlux(tGas, tSurface, emissivity, h float64) float64 {
	g := CelsiusToKelvin(tGas)
	s := CelsiusToKelvin(tSurface)
	return StefanBoltzmann*emissivity*(g*g*g*g-s*s*s*s) + h*(tGas-tSurface)
}

// 相邻节点间的平均导热系数
func meanConductivity(l1, l2 float64) float64 {
	return (l1 + l2) / 2
}

// 辐射换热的线性化系数 W/m2K
func radiativeCoefficient(emissivity, t1, t2 float64) float64 {
	a := CelsiusToKelvin(t1)
	b := CelsiusToKelvin(t2)
	return StefanBoltzmann * emissivity * (a*a + b*b) * (a + b)
}

// StableTimeStep 显式差分在初始状态下保持各更新系数非负的最大时间步长。
// 边界节点的辐射换热按计算时段内可能出现的最高气体温度线性化。
func StableTimeStep(p *Parameter) float64 {
	t0 := p.InitialTemperature
	lambda := p.Material.Conductivity.Value(t0)
	rc := p.Material.Density.Value(t0) * p.Material.SpecificHeat.Value(t0)
	dx := p.Dx

	// 内部节点
	dt := rc * dx * dx / (2 * lambda)

	for _, b := range []Boundary{p.Exposed, p.Unexposed} {
		gas := math.Max(b.Gas.Temperature(0), b.Gas.Temperature(p.Duration))
		hr := radiativeCoefficient(b.Emissivity, math.Max(gas, t0), math.Max(gas, t0))
		edge := rc * dx / (2 * (lambda/dx + b.Convection + hr))
		dt = math.Min(dt, edge)
	}
	return dt
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
