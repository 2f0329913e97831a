package export

import (
	"fmt"
	"io"

	"firecalc/history"
	"firecalc/model"

	"github.com/gocarina/gocsv"
)

// Row 长格式的一行：某个时间步某个节点的温度
type Row struct {
	Step        int     `csv:"step"`
	Time        float64 `csv:"time_s"`
	Node        int     `csv:"node"`
	Depth       float64 `csv:"depth_m"`
	Temperature float64 `csv:"temperature_c"`
}

// Rows 将温度场历史展开为长格式，节点 i 的深度为 i·dx
func Rows(h *history.History, dx float64) []Row {
	rows := make([]Row, 0)
	h.Traverse(func(_ int, f model.Frame) {
		for node, v := range f.Field {
			rows = append(rows, Row{
				Step:        f.Step,
				Time:        f.Time,
				Node:        node,
				Depth:       float64(node) * dx,
				Temperature: v,
			})
		}
	})
	return rows
}

func WriteCSV(w io.Writer, h *history.History, dx float64) error {
	rows := Rows(h, dx)
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("export: write csv: %w", err)
	}
	return nil
}

// ReadCSV 读取 WriteCSV 的输出
func ReadCSV(r io.Reader) ([]Row, error) {
	var rows []Row
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("export: read csv: %w", err)
	}
	return rows, nil
}
