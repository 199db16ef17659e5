// Package render 命令行输出
package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/vera-byte/eauth-console/pkg/model"
)

// 支持的输出格式
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Table 表格数据
type Table struct {
	Header []string
	Rows   [][]string
}

// Printer 按格式输出结果
type Printer struct {
	Out    io.Writer
	Format string
}

// Print 输出结果
// 参数: v 原始数据(json/yaml格式使用), table 表格数据, pagination 分页信息(可为nil)
// 返回值: error 错误信息
func (p *Printer) Print(v any, table Table, pagination *model.Pagination) error {
	switch p.Format {
	case FormatJSON:
		enc := json.NewEncoder(p.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		return p.yaml(v)
	case "", FormatTable:
		p.table(table)
		if pagination != nil {
			fmt.Fprintf(p.Out, "\npage %d/%d, %d per page, %d total\n",
				pagination.Page, pagination.Pages, pagination.PerPage, pagination.Total)
		}
		return nil
	default:
		return fmt.Errorf("unsupported output format %q", p.Format)
	}
}

// yaml 先经过JSON以沿用json标签中的字段名
func (p *Printer) yaml(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return err
	}
	enc := yaml.NewEncoder(p.Out)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return err
	}
	return enc.Close()
}

func (p *Printer) table(t Table) {
	table := tablewriter.NewWriter(p.Out)
	table.SetHeader(t.Header)
	table.AppendBulk(t.Rows)

	// 配置表格样式
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetCenterSeparator("|")
	table.SetColumnSeparator("|")
	table.SetRowSeparator("-")
	table.SetHeaderAlignment(tablewriter.ALIGN_CENTER)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.Render()
}
