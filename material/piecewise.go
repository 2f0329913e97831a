package material

import (
	"math"

	log "github.com/sirupsen/logrus"
)

// Domain 温度相对于公式适用范围的位置
type Domain int

const (
	InRange Domain = iota
	BelowRange
	AboveRange
)

func (d Domain) String() string {
	switch d {
	case BelowRange:
		return "below"
	case AboveRange:
		return "above"
	default:
		return "in"
	}
}

// 分段公式的一段，[Lo, Hi) 或 [Lo, Hi]
type Piece struct {
	Lo, Hi   float64
	ClosedHi bool
	F        func(theta float64) float64
}

func (p Piece) contains(theta float64) bool {
	if theta < p.Lo {
		return false
	}
	if p.ClosedHi {
		return theta <= p.Hi
	}
	return theta < p.Hi
}

// Piecewise 按温度分段的物性公式，分段必须按温度升序且首尾相接。
// 超出范围时取最近的端点值并给出警告，不做外推。
type Piecewise struct {
	Name   string
	Pieces []Piece
}

func (p *Piecewise) Min() float64 {
	return p.Pieces[0].Lo
}

func (p *Piecewise) Max() float64 {
	return p.Pieces[len(p.Pieces)-1].Hi
}

// Breakpoints 分段边界温度，不含首尾
func (p *Piecewise) Breakpoints() []float64 {
	res := make([]float64, 0, len(p.Pieces)-1)
	for i := 1; i < len(p.Pieces); i++ {
		res = append(res, p.Pieces[i].Lo)
	}
	return res
}

// Evaluate 返回物性值以及温度所处的区间
func (p *Piecewise) Evaluate(theta float64) (float64, Domain) {
	if math.IsNaN(theta) {
		return math.NaN(), InRange
	}
	domain := InRange
	if theta < p.Min() {
		theta, domain = p.Min(), BelowRange
	} else if theta > p.Max() {
		theta, domain = p.Max(), AboveRange
	}
	for _, piece := range p.Pieces {
		if piece.contains(theta) {
			return piece.F(theta), domain
		}
	}
	// 最后一段为开区间时的上端点
	last := p.Pieces[len(p.Pieces)-1]
	return last.F(theta), domain
}

func (p *Piecewise) Value(theta float64) float64 {
	v, domain := p.Evaluate(theta)
	if domain != InRange {
		log.WithFields(log.Fields{
			"property":    p.Name,
			"temperature": theta,
			"range":       domain.String(),
			"value":       v,
		}).Warn("温度超出物性公式适用范围，取端点值")
	}
	return v
}
