package calculator

import (
	"fmt"
)

// ExplicitStepper 显式有限差分
//
//	受火面: T0' = T0 + 2Δt/(ρcΔx)·(Q_in − λ̄(T0−T1)/Δx)
//	内部:   Tj' = Tj + Δt/(ρcΔx²)·(λ̄(j−1,j)(Tj−1−Tj) − λ̄(j,j+1)(Tj−Tj+1))
//	背火面: 与受火面对称，热流取环境传给表面的热流
//
// 物性参数在更新前按上一时间步的温度场统一计算，两个边界节点的温度不低于 FloorTemperature
type ExplicitStepper struct {
	p      *Parameter
	lambda []float64
	rhoC   []float64
}

func NewExplicitStepper(p *Parameter) (*ExplicitStepper, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &ExplicitStepper{
		p:      p,
		lambda: make([]float64, p.Nodes),
		rhoC:   make([]float64, p.Nodes),
	}, nil
}

func (e *ExplicitStepper) Method() Method {
	return MethodExplicit
}

// Step 计算一个时间步，t 为时间步开始时刻，返回新的温度场，不修改 field
func (e *ExplicitStepper) Step(step int, t float64, field []float64) ([]float64, error) {
	p := e.p
	n := p.Nodes
	if len(field) != n {
		return nil, &StepError{Step: step, Node: -1, Time: t,
			Err: fmt.Errorf("%w: field has %d nodes, want %d", ErrConfig, len(field), n)}
	}

	// 物性取上一时间步的温度
	for i, temp := range field {
		e.lambda[i] = p.Material.Conductivity.Value(temp)
		e.rhoC[i] = p.Material.Density.Value(temp) * p.Material.SpecificHeat.Value(temp)
		if !(e.rhoC[i] > 0) || !(e.lambda[i] > 0) || !isFinite(e.rhoC[i]) || !isFinite(e.lambda[i]) {
			return nil, &StepError{Step: step, Node: i, Time: t,
				Err: fmt.Errorf("%w: ρc=%v λ=%v at %v℃", ErrSingular, e.rhoC[i], e.lambda[i], temp)}
		}
	}

	next := make([]float64, n)
	cur := field
	if p.Sweep == SweepInPlace {
		copy(next, field)
		cur = next
	}

	dx, dt := p.Dx, p.Dt
	gasIn := p.Exposed.Gas.Temperature(t)
	gasOut := p.Unexposed.Gas.Temperature(t)

	// 受火面
	q := NetHeatFlux(gasIn, cur[0], p.Exposed.Emissivity, p.Exposed.Convection)
	l := meanConductivity(e.lambda[0], e.lambda[1])
	next[0] = cur[0] + 2*dt/(e.rhoC[0]*dx)*(q-l*(cur[0]-cur[1])/dx)
	if next[0] < p.FloorTemperature {
		next[0] = p.FloorTemperature
	}

	// 内部节点，原地更新时 cur[j-1] 已是新值
	for j := 1; j < n-1; j++ {
		l1 := meanConductivity(e.lambda[j-1], e.lambda[j])
		l2 := meanConductivity(e.lambda[j], e.lambda[j+1])
		next[j] = cur[j] + dt/(e.rhoC[j]*dx*dx)*(l1*(cur[j-1]-cur[j])-l2*(cur[j]-cur[j+1]))
	}

	// 背火面
	k := n - 1
	q = NetHeatFlux(gasOut, cur[k], p.Unexposed.Emissivity, p.Unexposed.Convection)
	l = meanConductivity(e.lambda[k-1], e.lambda[k])
	next[k] = cur[k] + 2*dt/(e.rhoC[k]*dx)*(l*(cur[k-1]-cur[k])/dx+q)
	if next[k] < p.FloorTemperature {
		next[k] = p.FloorTemperature
	}

	for i, v := range next {
		if !isFinite(v) {
			return nil, &StepError{Step: step, Node: i, Time: t,
				Err: fmt.Errorf("%w: temperature %v", ErrSingular, v)}
		}
	}
	return next, nil
}
