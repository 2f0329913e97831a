package fire

import (
	"fmt"
	"math"

	"firecalc/model"
)

// 参数化温度-时间曲线，BS EN 1991-1-2 附录 A
// 适用于面积不超过 500m2、高度不超过 4m、无顶部开口的隔间

const (
	// 参考隔间 O/b = 0.04/1160
	referenceOpening = 0.04
	referenceInertia = 1160.0
)

// 火灾增长速率对应的 t_lim，h
const (
	GrowthSlow   = 25.0 / 60
	GrowthMedium = 20.0 / 60
	GrowthFast   = 15.0 / 60
)

type Parametric struct {
	Opening         float64 // O, m^1/2, 0.02 ~ 0.20
	ThermalInertia  float64 // b, J/m2s^1/2K, 100 ~ 2200
	FireLoadDensity float64 // q_t,d, MJ/m2, 50 ~ 1000
	GrowthLimit     float64 // t_lim, h

	gamma     float64 // Γ
	gammaHeat float64 // 升温段使用的 Γ，燃料控制时为 Γ_lim
	tMax      float64 // h
	tStarMax  float64 // 降温段的 t*_max
	x         float64
	thetaMax  float64
}

func NewParametric(c model.Compartment) (*Parametric, error) {
	p := &Parametric{
		Opening:         c.Opening,
		ThermalInertia:  c.ThermalInertia,
		FireLoadDensity: c.FireLoadDensity,
		GrowthLimit:     c.FireGrowthLimit,
	}
	if p.GrowthLimit == 0 {
		p.GrowthLimit = GrowthMedium
	}
	if p.Opening < 0.02 || p.Opening > 0.2 {
		return nil, fmt.Errorf("fire: opening factor %v outside 0.02..0.20", p.Opening)
	}
	if p.ThermalInertia < 100 || p.ThermalInertia > 2200 {
		return nil, fmt.Errorf("fire: thermal inertia %v outside 100..2200", p.ThermalInertia)
	}
	if p.FireLoadDensity < 50 || p.FireLoadDensity > 1000 {
		return nil, fmt.Errorf("fire: fire load density %v outside 50..1000", p.FireLoadDensity)
	}
	if p.GrowthLimit <= 0 {
		return nil, fmt.Errorf("fire: invalid growth limit %v", p.GrowthLimit)
	}
	p.init()
	return p, nil
}

func gammaOf(o, b float64) float64 {
	r := (o / b) / (referenceOpening / referenceInertia)
	return r * r
}

func heating(tStar float64) float64 {
	return Ambient + 1325*(1-0.324*math.Exp(-0.2*tStar)-0.204*math.Exp(-1.7*tStar)-0.472*math.Exp(-19*tStar))
}

func (p *Parametric) init() {
	p.gamma = gammaOf(p.Opening, p.ThermalInertia)
	p.gammaHeat = p.gamma

	ventilated := 0.2e-3 * p.FireLoadDensity / p.Opening
	p.tMax = math.Max(ventilated, p.GrowthLimit)
	p.tStarMax = ventilated * p.gamma

	if p.tMax > p.GrowthLimit {
		// 通风控制
		p.x = 1
		p.thetaMax = heating(p.tMax * p.gamma)
		return
	}

	// 燃料控制 (A.8 ~ A.10)
	oLim := 0.1e-3 * p.FireLoadDensity / p.GrowthLimit
	gammaLim := gammaOf(oLim, p.ThermalInertia)
	if p.Opening > 0.04 && p.FireLoadDensity < 75 && p.ThermalInertia < 1160 {
		k := 1 + ((p.Opening-0.04)/0.04)*((p.FireLoadDensity-75)/75)*((1160-p.ThermalInertia)/1160)
		gammaLim *= k
	}
	p.gammaHeat = gammaLim
	p.x = p.GrowthLimit * p.gamma / p.tStarMax
	p.thetaMax = heating(p.GrowthLimit * gammaLim)
}

// MaxTemperature 最高气体温度及其出现时间 (s)
func (p *Parametric) MaxTemperature() (float64, float64) {
	return p.thetaMax, p.tMax * 3600
}

func (p *Parametric) Temperature(t float64) float64 {
	h := math.Max(t, 0) / 3600
	if h <= p.tMax {
		return heating(h * p.gammaHeat)
	}
	tStar := h * p.gamma
	shift := tStar - p.tStarMax*p.x
	var theta float64
	switch {
	case p.tStarMax <= 0.5:
		theta = p.thetaMax - 625*shift
	case p.tStarMax < 2:
		theta = p.thetaMax - 250*(3-p.tStarMax)*shift
	default:
		theta = p.thetaMax - 250*shift
	}
	return math.Max(theta, Ambient)
}
