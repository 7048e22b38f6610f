// Command csv2binlog converts a column-oriented CSV telemetry log into a
// binary log file, inferring its schema from the CSV header.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/horizon1026/binlog/csv"
)

func main() {
	if len(os.Args) < 2 || len(os.Args) > 3 {
		fmt.Fprintln(os.Stderr, "usage: csv2binlog <csv_path> [binlog_path]")
		os.Exit(1)
	}

	csvPath := os.Args[1]
	binlogPath := ""
	if len(os.Args) == 3 {
		binlogPath = os.Args[2]
	} else {
		binlogPath = defaultOutputPath(csvPath)
	}

	if err := csv.IngestCSV(csvPath, binlogPath); err != nil {
		fmt.Fprintf(os.Stderr, "csv2binlog: %v\n", err)
		os.Exit(1)
	}
}

// defaultOutputPath replaces csvPath's extension with ".binlog".
func defaultOutputPath(csvPath string) string {
	ext := strings.LastIndex(csvPath, ".")
	base := csvPath
	if ext >= 0 && ext > strings.LastIndex(csvPath, "/") {
		base = csvPath[:ext]
	}

	return base + ".binlog"
}
