package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/goto/fulltext/core/fulltext"
	"github.com/goto/salt/log"
	"github.com/olekukonko/tablewriter"
)

func initLogger(logLevel string, w io.Writer) log.Logger {
	if logLevel == "" {
		logLevel = "info"
	}
	return log.NewLogrus(
		log.LogrusWithLevel(logLevel),
		log.LogrusWithWriter(w),
	)
}

// printTable renders rows to w without borders, the first row being the header
func printTable(w io.Writer, rows [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)
	table.AppendBulk(rows)
	table.Render()
}

func prettyPrint(i interface{}) string {
	s, _ := json.MarshalIndent(i, "", "\t")
	return string(s)
}

type searchFlags struct {
	fields []string
	mode   string
}

// buildSearch resolves query against the named model of cfg
func buildSearch(cfg *Config, model, query string, flags searchFlags) (*fulltext.Search, error) {
	mode, err := fulltext.ParseMode(flags.mode)
	if err != nil {
		return nil, err
	}

	registry, err := cfg.Registry()
	if err != nil {
		return nil, err
	}

	manager, err := registry.Manager(strings.ToLower(model))
	if err != nil {
		return nil, err
	}

	opts := []fulltext.SearchOption{fulltext.WithMode(mode)}
	if len(flags.fields) > 0 {
		fields := make([]string, 0, len(flags.fields))
		for _, field := range flags.fields {
			fields = append(fields, strings.ToLower(field))
		}
		opts = append(opts, fulltext.WithFields(fields...))
	}
	return manager.Search(query, opts...)
}

// rowsReport lays maps out as a table, columns sorted by name
func rowsReport(rows []map[string]interface{}) [][]string {
	var headers []string
	for _, row := range rows {
		for k := range row {
			headers = appendUnique(headers, k)
		}
	}
	sort.Strings(headers)

	report := [][]string{headers}
	for _, row := range rows {
		line := make([]string, 0, len(headers))
		for _, h := range headers {
			v, ok := row[h]
			if !ok || v == nil {
				line = append(line, "")
				continue
			}
			line = append(line, fmt.Sprint(v))
		}
		report = append(report, line)
	}
	return report
}

func appendUnique(s []string, v string) []string {
	for _, e := range s {
		if e == v {
			return s
		}
	}
	return append(s, v)
}
