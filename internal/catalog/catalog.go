// Package catalog は一括登録用の商品データ（デモデータ、YAML / XLSX / JSON ファイル）を読む。
// 読むだけで検証はしない。検証は usecase.ImportProducts が行う。
package catalog

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"inventory/internal/domain/model"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// 画面の初期表示に使っていた4件
func DemoProducts() []model.ProductCandidate {
	return []model.ProductCandidate{
		{
			Name:        "Wireless Bluetooth Mouse",
			SKU:         "LOGI-MX-M123",
			Quantity:    150,
			Description: "Ergonomic wireless mouse with 6 programmable buttons and long battery life",
		},
		{
			Name:        "USB-C Hub",
			SKU:         "TECH-HUB-001",
			Quantity:    75,
			Description: "7-in-1 USB-C hub with HDMI, USB ports, SD card reader, and power delivery",
		},
		{
			Name:        "Mechanical Keyboard",
			SKU:         "KEYS-MX-PRO",
			Quantity:    5,
			Description: "RGB backlit mechanical keyboard with Cherry MX switches",
		},
		{
			Name:        "Webcam HD",
			SKU:         "CAM-HD-200",
			Quantity:    0,
			Description: "1080p HD webcam with built-in microphone for video conferencing",
		},
	}
}

// YAML / JSON のファイル形式 { products: [...] }
type fileDocument struct {
	Products []model.ProductCandidate `json:"products" yaml:"products"`
}

// LoadFile は拡張子で形式を判断して読む
func LoadFile(path string) ([]model.ProductCandidate, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return loadYAML(path)
	case ".json":
		return loadJSON(path)
	case ".xlsx":
		return loadXLSX(path)
	default:
		return nil, fmt.Errorf("unsupported file type %q (want .yaml, .yml, .json or .xlsx)", filepath.Ext(path))
	}
}

func loadYAML(path string) ([]model.ProductCandidate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc fileDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc.Products, nil
}

func loadJSON(path string) ([]model.ProductCandidate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc fileDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc.Products, nil
}

// 1枚目のシート。1行目はヘッダ（name, sku, quantity, description。順不同、大文字小文字は無視）
func loadXLSX(path string) ([]model.ProductCandidate, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("excel file has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("excel file is empty")
	}

	cols := map[string]int{}
	for i, h := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, want := range []string{"name", "sku", "quantity", "description"} {
		if _, ok := cols[want]; !ok {
			return nil, fmt.Errorf("excel header is missing column %q", want)
		}
	}

	cell := func(row []string, name string) string {
		i := cols[name]
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	out := make([]model.ProductCandidate, 0, len(rows)-1)
	for n, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}

		qty, err := parseQuantity(cell(row, "quantity"))
		if err != nil {
			// n は0始まり、ヘッダの分で +2
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}

		out = append(out, model.ProductCandidate{
			Name:        cell(row, "name"),
			SKU:         cell(row, "sku"),
			Quantity:    qty,
			Description: cell(row, "description"),
		})
	}
	return out, nil
}

// 空欄は0。Excel は "5" を "5.0" 形式で返すことがある。
func parseQuantity(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, fmt.Errorf("quantity %q is not a whole number", s)
	}
	return int64(f), nil
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
