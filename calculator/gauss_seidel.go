package calculator

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// StepResult Gauss-Seidel 一个时间步的结果
type StepResult struct {
	Field      []float64
	Iterations int
	Residual   float64 // 最后一次迭代的最大相对变化
}

// GaussSeidelStepper 隐式差分，每个时间步用 Gauss-Seidel 迭代求解 A·x = b。
//
// A 为三对角矩阵，Fo = αΔt/Δx²，α 取初始温度下的物性:
//
//	第 0 行:     1+2Fo, −2Fo
//	内部行 i:    −2Fo, 2(1+2Fo), −2Fo
//	最后一行:    −2Fo, 1+2Fo
//
// 内部行整体乘 2，对应右端项 C 中内部节点取 2·T。
// 迭代 x ← L⁻¹(b − U·x)，L 为含对角线的下三角，U 为严格上三角。
// 每次迭代都按当前迭代值重新计算边界热流:
//
//	b0   = C0   + 2αΔt/(λΔx)·Q_in(x0)
//	bN−1 = CN−1 + 2αΔt/(λΔx)·Q(xN−1)
type GaussSeidelStepper struct {
	p     *Parameter
	fo    float64
	scale float64
	l     *mat.TriDense
	u     *mat.Dense
}

func NewGaussSeidelStepper(p *Parameter) (*GaussSeidelStepper, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if !(p.Tolerance > 0) {
		return nil, configError("tolerance %v must be positive", p.Tolerance)
	}
	if p.MaxIterations < 1 {
		return nil, configError("max iterations %d must be at least 1", p.MaxIterations)
	}

	t0 := p.InitialTemperature
	lambda := p.Material.Conductivity.Value(t0)
	alpha := p.Material.Diffusivity(t0)
	fo := alpha * p.Dt / (p.Dx * p.Dx)

	n := p.Nodes
	a := mat.NewBandDense(n, n, 1, 1, nil)
	a.SetBand(0, 0, 1+2*fo)
	a.SetBand(0, 1, -2*fo)
	for i := 1; i < n-1; i++ {
		a.SetBand(i, i-1, -2*fo)
		a.SetBand(i, i, 2*(1+2*fo))
		a.SetBand(i, i+1, -2*fo)
	}
	a.SetBand(n-1, n-2, -2*fo)
	a.SetBand(n-1, n-1, 1+2*fo)

	// 拆分 A = L + U
	l := mat.NewTriDense(n, mat.Lower, nil)
	u := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := max(0, i-1); j <= min(n-1, i+1); j++ {
			if j <= i {
				l.SetTri(i, j, a.At(i, j))
			} else {
				u.Set(i, j, a.At(i, j))
			}
		}
	}

	return &GaussSeidelStepper{
		p:     p,
		fo:    fo,
		scale: 2 * alpha * p.Dt / (lambda * p.Dx),
		l:     l,
		u:     u,
	}, nil
}

func (g *GaussSeidelStepper) Method() Method {
	return MethodGaussSeidel
}

// Fourier 数
func (g *GaussSeidelStepper) Fo() float64 {
	return g.fo
}

// Step 以上一时间步温度场作为迭代初值
func (g *GaussSeidelStepper) Step(step int, t float64, field []float64) ([]float64, error) {
	res, err := g.StepFrom(step, t, field, field)
	if err != nil {
		return nil, err
	}
	return res.Field, nil
}

// StepFrom 以 trial 作为迭代初值计算一个时间步。
// 气体温度取时间步开始时刻 t 的值，整个时间步内不变
func (g *GaussSeidelStepper) StepFrom(step int, t float64, field, trial []float64) (StepResult, error) {
	p := g.p
	n := p.Nodes
	if len(field) != n || len(trial) != n {
		return StepResult{}, &StepError{Step: step, Node: -1, Time: t,
			Err: fmt.Errorf("%w: field has %d nodes and trial %d, want %d", ErrConfig, len(field), len(trial), n)}
	}

	// 右端项 C，内部节点加倍
	c := mat.NewVecDense(n, nil)
	for i, v := range field {
		if i == 0 || i == n-1 {
			c.SetVec(i, v)
		} else {
			c.SetVec(i, 2*v)
		}
	}

	gasIn := p.Exposed.Gas.Temperature(t)
	gasOut := p.Unexposed.Gas.Temperature(t)

	x := mat.NewVecDense(n, append([]float64(nil), trial...))
	b := mat.NewVecDense(n, nil)
	ux := mat.NewVecDense(n, nil)
	xNew := mat.NewVecDense(n, nil)

	residual, worst := 0.0, -1
	for it := 1; it <= p.MaxIterations; it++ {
		b.CopyVec(c)
		b.SetVec(0, b.AtVec(0)+g.scale*NetHeatFlux(gasIn, x.AtVec(0), p.Exposed.Emissivity, p.Exposed.Convection))
		b.SetVec(n-1, b.AtVec(n-1)+g.scale*NetHeatFlux(gasOut, x.AtVec(n-1), p.Unexposed.Emissivity, p.Unexposed.Convection))

		ux.MulVec(g.u, x)
		b.SubVec(b, ux)
		if err := xNew.SolveVec(g.l, b); err != nil {
			return StepResult{Iterations: it}, &StepError{Step: step, Node: -1, Time: t,
				Err: fmt.Errorf("%w: %v", ErrSingular, err)}
		}

		residual, worst = 0, -1
		for i := 0; i < n; i++ {
			old := x.AtVec(i)
			if old == 0 {
				return StepResult{Iterations: it}, &StepError{Step: step, Node: i, Time: t,
					Err: fmt.Errorf("%w: zero trial temperature in relative error", ErrSingular)}
			}
			d := math.Abs(xNew.AtVec(i)-old) / math.Abs(old)
			if !isFinite(d) {
				return StepResult{Iterations: it}, &StepError{Step: step, Node: i, Time: t,
					Err: fmt.Errorf("%w: temperature %v", ErrSingular, xNew.AtVec(i))}
			}
			if d > residual || worst < 0 {
				residual, worst = d, i
			}
		}
		x.CopyVec(xNew)

		if residual < p.Tolerance {
			return StepResult{Field: mat.Col(nil, 0, x), Iterations: it, Residual: residual}, nil
		}
	}

	return StepResult{Iterations: p.MaxIterations, Residual: residual}, &StepError{Step: step, Node: worst, Time: t,
		Err: fmt.Errorf("%w within %d iterations, residual %g", ErrDivergence, p.MaxIterations, residual)}
}
