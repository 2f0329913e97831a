package material

import (
	"fmt"
	"strings"
)

// 钢材热工性能，BS EN 1993-1-2
// 碳钢: 3.4.1，不锈钢: 附录 C
// 适用温度范围 20℃ ~ 1200℃

const (
	SteelMinTemperature = 20.0
	SteelMaxTemperature = 1200.0

	// 钢材密度与温度无关
	SteelDensity = 7850.0
)

const (
	GradeCarbon    = "carbon"
	GradeStainless = "stainless"
)

// 碳钢比热容 (3.4.1.2)
var carbonSteelSpecificHeat = &Piecewise{
	Name: "carbon steel specific heat",
	Pieces: []Piece{
		{Lo: 20, Hi: 600, F: func(t float64) float64 {
			return 425 + 7.73e-1*t - 1.69e-3*t*t + 2.22e-6*t*t*t
		}},
		{Lo: 600, Hi: 735, F: func(t float64) float64 {
			return 666 + 13002/(738-t)
		}},
		{Lo: 735, Hi: 900, F: func(t float64) float64 {
			return 545 + 17820/(t-731)
		}},
		{Lo: 900, Hi: 1200, ClosedHi: true, F: func(float64) float64 {
			return 650
		}},
	},
}

// 碳钢导热系数 (3.4.1.3)
var carbonSteelConductivity = &Piecewise{
	Name: "carbon steel conductivity",
	Pieces: []Piece{
		{Lo: 20, Hi: 800, F: func(t float64) float64 {
			return 54 - 3.33e-2*t
		}},
		{Lo: 800, Hi: 1200, ClosedHi: true, F: func(float64) float64 {
			return 27.3
		}},
	},
}

// 不锈钢比热容 (C.3.2)
var stainlessSteelSpecificHeat = &Piecewise{
	Name: "stainless steel specific heat",
	Pieces: []Piece{
		{Lo: 20, Hi: 1200, ClosedHi: true, F: func(t float64) float64 {
			return 450 + 0.280*t - 2.91e-4*t*t + 1.34e-7*t*t*t
		}},
	},
}

// 不锈钢导热系数 (C.3.3)
var stainlessSteelConductivity = &Piecewise{
	Name: "stainless steel conductivity",
	Pieces: []Piece{
		{Lo: 20, Hi: 1200, ClosedHi: true, F: func(t float64) float64 {
			return 14.6 + 1.27e-2*t
		}},
	},
}

func CarbonSteelSpecificHeat() *Piecewise {
	return carbonSteelSpecificHeat
}

func CarbonSteelConductivity() *Piecewise {
	return carbonSteelConductivity
}

func StainlessSteelSpecificHeat() *Piecewise {
	return stainlessSteelSpecificHeat
}

func StainlessSteelConductivity() *Piecewise {
	return stainlessSteelConductivity
}

func CarbonSteel() Set {
	return Set{
		Name:         GradeCarbon,
		Conductivity: carbonSteelConductivity,
		Density:      Constant(SteelDensity),
		SpecificHeat: carbonSteelSpecificHeat,
	}
}

func StainlessSteel() Set {
	return Set{
		Name:         GradeStainless,
		Conductivity: stainlessSteelConductivity,
		Density:      Constant(SteelDensity),
		SpecificHeat: stainlessSteelSpecificHeat,
	}
}

// ByGrade 根据钢种名称获取物性
func ByGrade(grade string) (Set, error) {
	switch strings.ToLower(strings.TrimSpace(grade)) {
	case GradeCarbon:
		return CarbonSteel(), nil
	case GradeStainless:
		return StainlessSteel(), nil
	default:
		return Set{}, fmt.Errorf("material: unknown steel grade %q", grade)
	}
}
