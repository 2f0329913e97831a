package material

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"firecalc/model"

	"github.com/gocarina/gocsv"
	log "github.com/sirupsen/logrus"
)

var ErrEmptyTable = errors.New("material: empty property table")

// Table 按温度线性插值的物性表，超出表格范围时取端点值并给出警告
type Table struct {
	Name         string
	Temperatures []float64
	Values       []float64
}

func NewTable(name string, temperatures, values []float64) (*Table, error) {
	if len(temperatures) == 0 || len(temperatures) != len(values) {
		return nil, fmt.Errorf("%w: %q", ErrEmptyTable, name)
	}
	idx := make([]int, len(temperatures))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return temperatures[idx[i]] < temperatures[idx[j]]
	})
	t := &Table{
		Name:         name,
		Temperatures: make([]float64, len(idx)),
		Values:       make([]float64, len(idx)),
	}
	for i, k := range idx {
		t.Temperatures[i] = temperatures[k]
		t.Values[i] = values[k]
	}
	for i := 1; i < len(t.Temperatures); i++ {
		if t.Temperatures[i] == t.Temperatures[i-1] {
			return nil, fmt.Errorf("material: duplicate temperature %v in table %q", t.Temperatures[i], name)
		}
	}
	return t, nil
}

// Evaluate 二分查找所在区间后线性插值
func (t *Table) Evaluate(theta float64) (float64, Domain) {
	n := len(t.Temperatures)
	if theta < t.Temperatures[0] {
		return t.Values[0], BelowRange
	}
	if theta > t.Temperatures[n-1] {
		return t.Values[n-1], AboveRange
	}
	i := sort.SearchFloat64s(t.Temperatures, theta)
	if t.Temperatures[i] == theta {
		return t.Values[i], InRange
	}
	t1, t2 := t.Temperatures[i-1], t.Temperatures[i]
	v1, v2 := t.Values[i-1], t.Values[i]
	return v1 + (v2-v1)*(theta-t1)/(t2-t1), InRange
}

func (t *Table) Value(theta float64) float64 {
	v, domain := t.Evaluate(theta)
	if domain != InRange {
		log.WithFields(log.Fields{
			"property":    t.Name,
			"temperature": theta,
			"range":       domain.String(),
			"value":       v,
		}).Warn("温度超出物性表范围，取端点值")
	}
	return v
}

// SetFromTable 由物性表构建物性参数
func SetFromTable(name string, points []model.PropertyPoint) (Set, error) {
	if len(points) == 0 {
		return Set{}, fmt.Errorf("%w: %q", ErrEmptyTable, name)
	}
	temps := make([]float64, len(points))
	lambda := make([]float64, len(points))
	rho := make([]float64, len(points))
	c := make([]float64, len(points))
	for i, p := range points {
		temps[i] = p.Temperature
		lambda[i] = p.ThermalConductivity
		rho[i] = p.Density
		c[i] = p.SpecificHeat
	}
	lt, err := NewTable(name+" conductivity", temps, lambda)
	if err != nil {
		return Set{}, err
	}
	rt, err := NewTable(name+" density", temps, rho)
	if err != nil {
		return Set{}, err
	}
	ct, err := NewTable(name+" specific heat", temps, c)
	if err != nil {
		return Set{}, err
	}
	return Set{Name: name, Conductivity: lt, Density: rt, SpecificHeat: ct}, nil
}

// LoadTable 读取 csv 格式的物性表
// 表头: temperature,thermal_conductivity,density,specific_heat
func LoadTable(r io.Reader) ([]model.PropertyPoint, error) {
	var points []model.PropertyPoint
	if err := gocsv.Unmarshal(r, &points); err != nil {
		return nil, fmt.Errorf("material: read property table: %w", err)
	}
	if len(points) == 0 {
		return nil, ErrEmptyTable
	}
	return points, nil
}
