// Package csv converts a column-oriented text log (header line plus
// comma-separated numeric rows) into a binary log file, inferring a package
// schema from the header's column names.
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/horizon1026/binlog/codec"
	"github.com/horizon1026/binlog/endian"
	"github.com/horizon1026/binlog/errs"
	"github.com/horizon1026/binlog/schema"
)

var le = endian.GetLittleEndianEngine()

// packagePlan binds a registered package to the header column indices its
// row values are read from, item by item.
type packagePlan struct {
	id             uint16
	size           uint32
	columnsPerItem [][]int
}

// IngestCSV reads csvPath and writes an equivalent binary log to
// binlogPath, per §4.8: the timestamp column picked by findTimestampColumn
// drives record timestamps, and every other column is grouped into a package by
// its "/"-prefix and folded into vector3/pose6dof/float items.
func IngestCSV(csvPath, binlogPath string) error {
	f, err := os.Open(csvPath)
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrIoOpenFailed, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("%w: reading csv header: %v", errs.ErrIoOpenFailed, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.Trim(header[i], "\r\n"))
	}

	tsIdx, scale, err := findTimestampColumn(header)
	if err != nil {
		return err
	}

	groupIndices, groupOrder := groupColumns(header, tsIdx)

	enc := codec.NewEncoder()
	if err := enc.CreateLogFile(binlogPath); err != nil {
		return err
	}
	defer enc.CleanUp()

	plans := make([]packagePlan, 0, len(groupOrder))
	for _, pkg := range groupOrder {
		indices := groupIndices[pkg]
		names := make([]string, len(indices))
		for i, idx := range indices {
			names[i] = displayName(pkg, header[idx])
		}

		items, cols := foldGroup(names, indices)

		id := uint16(indices[0])
		info, err := schema.NewPackageInfo(id, pkg, items)
		if err != nil {
			return err
		}
		if err := enc.RegisterPackage(info.ID, info.Name, items); err != nil {
			return err
		}

		plans = append(plans, packagePlan{id: info.ID, size: info.Size, columnsPerItem: cols})
	}

	if err := enc.PrepareForRecording(); err != nil {
		return err
	}

	return ingestRows(r, header, tsIdx, scale, plans, enc)
}

func ingestRows(r *csv.Reader, header []string, tsIdx int, scale float64, plans []packagePlan, enc *codec.Encoder) error {
	haveOffset := false
	var tsOffset float64

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}
		if len(row) != len(header) {
			continue
		}

		values, ok := parseRow(row)
		if !ok {
			continue
		}

		if !haveOffset {
			tsOffset = values[tsIdx]
			haveOffset = true
		}
		timestampS := float32((values[tsIdx] - tsOffset) * scale)

		for _, p := range plans {
			buf := make([]byte, 0, p.size)
			for _, cols := range p.columnsPerItem {
				for _, c := range cols {
					buf = le.AppendUint32(buf, math.Float32bits(float32(values[c])))
				}
			}

			if err := enc.RecordPackage(p.id, buf, timestampS); err != nil {
				return err
			}
		}
	}

	return nil
}

func parseRow(row []string) ([]float64, bool) {
	values := make([]float64, len(row))
	for i, field := range row {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return nil, false
		}
		values[i] = v
	}

	return values, true
}
