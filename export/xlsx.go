package export

import (
	"fmt"
	"io"

	"firecalc/history"
	"firecalc/model"

	"github.com/xuri/excelize/v2"
)

const (
	SheetTemperature = "temperature"
	SheetSummary     = "summary"
)

// WriteXLSX 宽格式：每行一个时间步，每列一个节点；summary 表给出各节点的最高、最低温度
func WriteXLSX(w io.Writer, h *history.History, dx float64) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetTemperature); err != nil {
		return fmt.Errorf("export: %w", err)
	}

	nodes := 0
	if first, ok := h.First(); ok {
		nodes = len(first.Field)
	}

	header := []interface{}{"step", "time_s"}
	for i := 0; i < nodes; i++ {
		header = append(header, fmt.Sprintf("x=%.4fm", float64(i)*dx))
	}
	if err := f.SetSheetRow(SheetTemperature, "A1", &header); err != nil {
		return fmt.Errorf("export: %w", err)
	}

	var err error
	h.Traverse(func(i int, frame model.Frame) {
		if err != nil {
			return
		}
		row := make([]interface{}, 0, len(frame.Field)+2)
		row = append(row, frame.Step, frame.Time)
		for _, v := range frame.Field {
			row = append(row, v)
		}
		var cell string
		if cell, err = excelize.CoordinatesToCellName(1, i+2); err != nil {
			return
		}
		err = f.SetSheetRow(SheetTemperature, cell, &row)
	})
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	if _, err := f.NewSheet(SheetSummary); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	summary := []interface{}{"node", "depth_m", "max_c", "min_c"}
	if err := f.SetSheetRow(SheetSummary, "A1", &summary); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	for node := 0; node < nodes; node++ {
		row := []interface{}{node, float64(node) * dx, h.Peak(node), h.Lowest(node)}
		cell, err := excelize.CoordinatesToCellName(1, node+2)
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		if err := f.SetSheetRow(SheetSummary, cell, &row); err != nil {
			return fmt.Errorf("export: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("export: write xlsx: %w", err)
	}
	return nil
}
