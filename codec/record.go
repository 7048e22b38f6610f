// Package codec implements the encoder and decoder halves of the binary log
// format: Part 1/2 handling lives in format and schema, this package owns
// Part 3, the append-only record stream, and the dynamic-payload families
// that ride inside it.
package codec

import (
	"math"

	"github.com/horizon1026/binlog/checksum"
	"github.com/horizon1026/binlog/endian"
)

var le = endian.GetLittleEndianEngine()

// frameRecordHeaderSize is the number of bytes preceding payload in a
// Part-3 record: record_offset(4) + package_id(2) + timestamp_s(4).
const frameRecordHeaderSize = 4 + 2 + 4

// buildRecord frames id/timestamp/payload into one self-checksummed Part-3
// record, per §4.2.
func buildRecord(id uint16, timestampS float32, payload []byte) []byte {
	recordOffset := uint32(frameRecordHeaderSize + len(payload) + 1)

	out := make([]byte, 0, recordOffset)
	out = le.AppendUint32(out, recordOffset)
	out = le.AppendUint16(out, id)
	out = le.AppendUint32(out, math.Float32bits(timestampS))
	out = append(out, payload...)

	sum := checksum.Sum(0, out)
	out = append(out, sum)

	return out
}
