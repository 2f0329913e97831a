package calculator

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig 参数错误，在开始计算前返回
	ErrConfig = errors.New("configuration error")
	// ErrDivergence Gauss-Seidel 迭代次数超过上限
	ErrDivergence = errors.New("gauss-seidel iteration did not converge")
	// ErrSingular 除零或出现非有限值
	ErrSingular = errors.New("arithmetic singularity")
)

// StepError 某个时间步、某个节点上的计算错误
type StepError struct {
	Step int     // 时间步序号，从 1 开始
	Node int     // 节点下标，-1 表示与具体节点无关
	Time float64 // 时间步开始时刻 s
	Err  error
}

func (e *StepError) Error() string {
	if e.Node < 0 {
		return fmt.Sprintf("step %d (t=%gs): %v", e.Step, e.Time, e.Err)
	}
	return fmt.Sprintf("step %d (t=%gs) node %d: %v", e.Step, e.Time, e.Node, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

func configError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrConfig}, args...)...)
}
