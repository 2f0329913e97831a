package fire

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"firecalc/model"

	"github.com/gocarina/gocsv"
)

var ErrEmptyTable = errors.New("fire: empty time-temperature table")

// Table 实测或给定的时间-温度曲线，线性插值，超出范围时取端点值
type Table struct {
	times []float64
	temps []float64
}

func NewTable(points []model.CurvePoint) (*Table, error) {
	if len(points) == 0 {
		return nil, ErrEmptyTable
	}
	sorted := make([]model.CurvePoint, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time < sorted[j].Time
	})
	t := &Table{
		times: make([]float64, len(sorted)),
		temps: make([]float64, len(sorted)),
	}
	for i, p := range sorted {
		if i > 0 && p.Time == sorted[i-1].Time {
			return nil, fmt.Errorf("fire: duplicate time %v", p.Time)
		}
		t.times[i] = p.Time
		t.temps[i] = p.Temperature
	}
	return t, nil
}

func (t *Table) Temperature(at float64) float64 {
	n := len(t.times)
	if at <= t.times[0] {
		return t.temps[0]
	}
	if at >= t.times[n-1] {
		return t.temps[n-1]
	}
	i := sort.SearchFloat64s(t.times, at)
	if t.times[i] == at {
		return t.temps[i]
	}
	t1, t2 := t.times[i-1], t.times[i]
	return t.temps[i-1] + (t.temps[i]-t.temps[i-1])*(at-t1)/(t2-t1)
}

// LoadPoints 读取 csv 格式的时间-温度表，表头: time,temperature
func LoadPoints(r io.Reader) ([]model.CurvePoint, error) {
	var points []model.CurvePoint
	if err := gocsv.Unmarshal(r, &points); err != nil {
		return nil, fmt.Errorf("fire: read curve table: %w", err)
	}
	if len(points) == 0 {
		return nil, ErrEmptyTable
	}
	return points, nil
}
