// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"strconv"

	"github.com/apex/log"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v2"

	"github.com/staranto/pumlcache/internal/attrs"
	"github.com/staranto/pumlcache/internal/config"
	"github.com/staranto/pumlcache/internal/filters"
)

// Options carries the presentation flags of a listing command.
type Options struct {
	Output string // text, json or yaml
	Filter string
	Sort   string
	Titles bool
	Color  bool
}

// SliceDiceSpit filters, sorts, transforms and renders rows according to
// attrs and opts.
func SliceDiceSpit(rows []map[string]interface{},
	attrs attrs.AttrList,
	opts Options,
	w io.Writer) error {

	if w == nil {
		w = os.Stdout
	}

	raw, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to encode rows: %w", err)
	}

	// Filter first so the following steps work on a smaller dataset.
	dataset := filters.FilterDataset(gjson.ParseBytes(raw), attrs, opts.Filter)

	// Sort on raw values; humanized ones no longer order correctly.
	SortDataset(dataset, opts.Sort)

	if err := attrs.SetGlobalTransformSpec(); err != nil {
		return err
	}
	for _, row := range dataset {
		for _, attr := range attrs {
			if attr.TransformSpec != "" && attr.Key != "*" {
				row[attr.OutputKey] = attr.Transform(row[attr.OutputKey])
			}
		}
	}

	switch opts.Output {
	case "json":
		// Excluded attrs were only needed for filtering and sorting.
		jsonOutput, err := json.Marshal(included(dataset, attrs))
		if err != nil {
			return fmt.Errorf("failed to marshal json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(jsonOutput))
		return err
	case "yaml":
		yamlOutput, err := yaml.Marshal(included(dataset, attrs))
		if err != nil {
			return fmt.Errorf("failed to marshal yaml: %w", err)
		}
		_, err = w.Write(yamlOutput)
		return err
	default:
		TableWriter(dataset, attrs, opts, w)
		return nil
	}
}

// included drops the values of attrs that are not part of the output. An
// empty dataset becomes an empty list rather than null.
func included(dataset []map[string]interface{}, attrs attrs.AttrList) []map[string]interface{} {
	result := make([]map[string]interface{}, 0, len(dataset))
	for _, row := range dataset {
		out := make(map[string]interface{}, len(row))
		for _, attr := range attrs {
			if attr.Include {
				out[attr.OutputKey] = row[attr.OutputKey]
			}
		}
		result = append(result, out)
	}
	return result
}

// TableWriter renders the result set in a tabular form honoring color,
// titles and padding options.
func TableWriter(
	resultSet []map[string]interface{},
	attrs attrs.AttrList,
	opts Options,
	w io.Writer) {

	if len(resultSet) == 0 {
		return
	}

	var (
		headerStyle  = lipgloss.NewStyle().Align(lipgloss.Left)
		cellStyle    = lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)
		evenRowStyle = cellStyle
		oddRowStyle  = cellStyle
	)

	if opts.Color {
		headerColor, evenColor, oddColor := getColors("colors")

		headerStyle = headerStyle.Foreground(lipgloss.Color(headerColor))
		evenRowStyle = evenRowStyle.Foreground(lipgloss.Color(evenColor))
		oddRowStyle = oddRowStyle.Foreground(lipgloss.Color(oddColor))
	}

	pad, _ := config.GetInt("padding", 2) //nolint:mnd
	log.Debugf("padding: %v", pad)

	var rows [][]string
	for _, result := range resultSet {
		row := make([]string, 0, len(result))
		for _, attr := range attrs {
			if !attr.Include {
				continue
			}
			row = append(row, InterfaceToString(result[attr.OutputKey], "-"))
		}
		rows = append(rows, row)
	}

	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			var style lipgloss.Style
			switch {
			case row == table.HeaderRow:
				style = headerStyle
			case row%2 == 0:
				style = evenRowStyle
			default:
				style = oddRowStyle
			}

			if col > 0 {
				style = style.PaddingLeft(pad)
			}

			return style
		}).
		Headers().
		Rows(rows...)

	if opts.Titles {
		var headers []string
		for _, attr := range attrs {
			if attr.Include {
				headers = append(headers, attr.OutputKey)
			}
		}

		// https://github.com/charmbracelet/lipgloss/issues/261
		t = t.Headers(headers...).BorderHeader(false)
	}
	fmt.Fprintln(w, t)
}

// getColors returns configured color values for table rendering.
func getColors(key string) (header string, even string, odd string) {
	header, _ = config.GetString(fmt.Sprintf("%s.title", key), "#f6be00")
	even, _ = config.GetString(fmt.Sprintf("%s.even", key), "#ffffff")
	odd, _ = config.GetString(fmt.Sprintf("%s.odd", key), "#00c8f0")
	return
}

// InterfaceToString converts supported primitive or composite values to a
// string. A custom empty value may be provided.
func InterfaceToString(value interface{}, emptyValue ...string) string {
	if len(emptyValue) == 0 {
		emptyValue = []string{""}
	}

	if value == nil || reflect.ValueOf(value).IsZero() {
		return emptyValue[0]
	}

	switch value := value.(type) {
	case string:
		return value
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case float64:
		// Sizes and counts are whole numbers.
		return fmt.Sprintf("%.0f", value)
	case bool:
		return strconv.FormatBool(value)
	default:
		jsonBytes, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprintf("%v", value)
		}
		return string(jsonBytes)
	}
}
