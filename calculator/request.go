package calculator

import (
	"firecalc/config"
	"firecalc/fire"
	"firecalc/material"
	"firecalc/model"
)

// NewParameter 把请求转换为计算参数，请求中未给出的字段取 cfg 中的默认值
func NewParameter(req model.SimulationRequest, cfg *config.Config) (*Parameter, Method, error) {
	s := cfg.Solver
	method, err := ParseMethod(req.Method, Method(s.Method))
	if err != nil {
		return nil, "", err
	}
	if method != MethodExplicit && method != MethodGaussSeidel {
		return nil, "", configError("unknown method %q", method)
	}
	sweepName := req.Sweep
	if sweepName == "" {
		sweepName = s.Sweep
	}
	sweep, err := parseSweep(sweepName)
	if err != nil {
		return nil, "", err
	}

	p := &Parameter{
		Nodes:              intOr(req.Nodes, s.Nodes),
		Dx:                 floatOr(req.Dx, s.Dx),
		Dt:                 floatOr(req.Dt, s.Dt),
		Duration:           floatOr(req.Duration, s.Duration),
		InitialTemperature: s.InitialTemperature,
		FloorTemperature:   s.FloorTemperature,
		Tolerance:          floatOr(req.Tolerance, s.Tolerance),
		MaxIterations:      intOr(req.MaxIterations, s.MaxIterations),
		Sweep:              sweep,
		MaxSteps:           s.MaxSteps,
	}
	if req.InitialTemperature != nil {
		p.InitialTemperature = *req.InitialTemperature
	}
	if req.FloorTemperature != nil {
		p.FloorTemperature = *req.FloorTemperature
	}

	if p.Material, err = newMaterial(req.Material); err != nil {
		return nil, "", err
	}

	b := cfg.Boundary
	exposedCurve := req.Exposed.Curve
	if exposedCurve.Kind == "" {
		exposedCurve.Kind = "iso834"
	}
	if p.Exposed, err = newBoundary("exposed", req.Exposed, exposedCurve, b.ExposedEmissivity, b.ExposedConvection); err != nil {
		return nil, "", err
	}
	unexposedCurve := req.Unexposed.Curve
	if unexposedCurve.Kind == "" {
		unexposedCurve = model.CurveSpec{Kind: "constant", Temperature: b.Ambient}
	}
	if p.Unexposed, err = newBoundary("unexposed", req.Unexposed, unexposedCurve, b.UnexposedEmissivity, b.UnexposedConvection); err != nil {
		return nil, "", err
	}

	if err := p.Validate(); err != nil {
		return nil, "", err
	}
	return p, method, nil
}

func parseSweep(s string) (Sweep, error) {
	switch s {
	case "", model.SweepInPlace:
		return SweepInPlace, nil
	case model.SweepSnapshot:
		return SweepSnapshot, nil
	}
	return 0, configError("unknown sweep %q", s)
}

func newMaterial(spec model.MaterialSpec) (material.Set, error) {
	switch {
	case len(spec.Table) > 0:
		set, err := material.SetFromTable(spec.Grade, spec.Table)
		if err != nil {
			return material.Set{}, configError("material table: %v", err)
		}
		return set, nil
	case spec.ThermalConductivity != 0 || spec.Density != 0 || spec.SpecificHeat != 0:
		if !(spec.ThermalConductivity > 0 && spec.Density > 0 && spec.SpecificHeat > 0) {
			return material.Set{}, configError("constant material needs positive conductivity, density and specific heat")
		}
		return material.ConstantSet(spec.ThermalConductivity, spec.Density, spec.SpecificHeat), nil
	}
	grade := spec.Grade
	if grade == "" {
		grade = material.GradeCarbon
	}
	set, err := material.ByGrade(grade)
	if err != nil {
		return material.Set{}, configError("%v", err)
	}
	return set, nil
}

func newBoundary(name string, spec model.BoundarySpec, curve model.CurveSpec, emissivity, convection float64) (Boundary, error) {
	gas, err := fire.FromSpec(curve)
	if err != nil {
		return Boundary{}, configError("%s boundary: %v", name, err)
	}
	b := Boundary{Gas: gas, Emissivity: emissivity, Convection: convection}
	if spec.Emissivity != nil {
		b.Emissivity = *spec.Emissivity
	}
	if spec.Convection != nil {
		b.Convection = *spec.Convection
	}
	return b, nil
}

func intOr(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func floatOr(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}
