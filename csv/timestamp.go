package csv

import (
	"fmt"
	"strings"

	"github.com/horizon1026/binlog/errs"
)

// timestampSuffixes and timestampScales are parallel: the first matching
// suffix determines a header's timestamp unit, per §4.8 step 2.
var timestampSuffixes = []string{"_s", "_ns", "_us", "_ms", "[s]", "[ns]", "[us]", "[ms]"}
var timestampScales = []float64{1.0, 1e-9, 1e-6, 1e-3, 1.0, 1e-9, 1e-6, 1e-3}

// findTimestampColumn locates the timestamp column in header and reports the
// scale factor (seconds per raw unit) to apply to its values.
//
// An exact "timestamp" or "time_stamp" match is assumed to be in
// microseconds. Otherwise the first column whose name contains "timestamp"
// or "time_stamp" and ends with a recognized unit suffix wins.
func findTimestampColumn(header []string) (int, float64, error) {
	for i, name := range header {
		if name == "timestamp" || name == "time_stamp" {
			return i, 1e-6, nil
		}
	}

	for i, name := range header {
		if !strings.Contains(name, "timestamp") && !strings.Contains(name, "time_stamp") {
			continue
		}
		for j, suffix := range timestampSuffixes {
			if strings.HasSuffix(name, suffix) {
				return i, timestampScales[j], nil
			}
		}
	}

	return 0, 0, fmt.Errorf("%w: no timestamp column found in header", errs.ErrSchemaInvalid)
}
