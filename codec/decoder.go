package codec

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/horizon1026/binlog/checksum"
	"github.com/horizon1026/binlog/errs"
	"github.com/horizon1026/binlog/format"
	"github.com/horizon1026/binlog/schema"
)

// PackageDataPerTick is one decoded Part-3 record, indexed by the package id
// it belongs to.
//
// Data is nil for a dynamic-payload record decoded with loadDynamicFullData
// false; static-payload records always carry Data. IndexInFile and Size span
// the whole framed record, so Decoder.LoadBinaryDataFromLogFile can fetch it
// later, regardless of whether Data was retained; the payload is that record
// without its first frameRecordHeaderSize bytes and its trailing checksum byte.
type PackageDataPerTick struct {
	TimestampS  float32
	IndexInFile int64
	Size        uint32
	Data        []byte
}

// Decoder opens a binary log file, rebuilds its schema registry from Part 2,
// and walks Part 3 into an in-memory per-package index.
//
// A Decoder owns its file handle exclusively and is not safe for concurrent
// use.
type Decoder struct {
	path string
	file *os.File

	registry *schema.Registry
	data     map[uint16][]PackageDataPerTick

	tsMin, tsMax float32
	haveTs       bool

	warnings []string
}

// NewDecoder returns an empty Decoder with no file open.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// LoadLogFile opens path, validates the Part 1 header, parses Part 2 into a
// schema registry, then walks Part 3 to EOF, populating the per-package
// index.
//
// When loadDynamicFullData is false, dynamic-payload records still get a
// PackageDataPerTick entry with IndexInFile and Size populated, but Data is
// not retained; static-payload records always retain Data. After the walk,
// the file handle is reopened so LoadBinaryDataFromLogFile starts from a
// clean state.
func (d *Decoder) LoadLogFile(path string, loadDynamicFullData bool) error {
	d.CleanUp()

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrIoOpenFailed, err)
	}

	headerLen, err := checkHeader(raw)
	if err != nil {
		return err
	}
	pos := headerLen

	pkgs, consumed, err := schema.ParseBlock(raw[pos:])
	if err != nil {
		return err
	}
	pos += int(consumed)

	registry := schema.NewRegistry()
	for _, p := range pkgs {
		if err := registry.Register(p); err != nil {
			return err
		}
	}
	d.registry = registry
	d.data = make(map[uint16][]PackageDataPerTick)

	for pos < len(raw) {
		next, ok := d.decodeRecord(raw, pos, loadDynamicFullData)
		if !ok {
			break
		}

		pos = next
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrIoOpenFailed, err)
	}

	d.path = path
	d.file = f

	return nil
}

// checkHeader matches raw's leading bytes against the current or legacy
// header literal and returns its length.
func checkHeader(raw []byte) (int, error) {
	if len(raw) >= len(format.Header) && string(raw[:len(format.Header)]) == format.Header {
		return len(format.Header), nil
	}
	if len(raw) >= len(format.LegacyHeader) && string(raw[:len(format.LegacyHeader)]) == format.LegacyHeader {
		return len(format.LegacyHeader), nil
	}

	return 0, errs.ErrInvalidHeader
}

// decodeRecord decodes one Part-3 record starting at pos, per §4.6. It
// returns the position to resume scanning from and whether the stream
// continues. A clean EOF at a record boundary returns ok=false without
// emitting a warning; every other termination condition also returns
// ok=false after recording a warning.
func (d *Decoder) decodeRecord(raw []byte, pos int, loadDynamicFullData bool) (int, bool) {
	indexInFile := pos

	if pos+4 > len(raw) {
		return 0, false
	}
	recordOffset := le.Uint32(raw[pos:])

	if recordOffset < frameRecordHeaderSize+1 || indexInFile+int(recordOffset) > len(raw) {
		d.warn("record at offset %d declares invalid size %d, stopping", indexInFile, recordOffset)
		return 0, false
	}
	resync := indexInFile + int(recordOffset)

	cursor := pos + 4
	if cursor+2 > len(raw) {
		d.warn("record at offset %d truncated before package id", indexInFile)
		return resync, true
	}
	id := le.Uint16(raw[cursor:])
	cursor += 2

	info, ok := d.registry.Get(id)
	if !ok {
		d.warn("record at offset %d references unregistered package %d", indexInFile, id)
		return resync, true
	}

	if cursor+4 > len(raw) {
		d.warn("record at offset %d truncated before timestamp", indexInFile)
		return resync, true
	}
	timestampS := math.Float32frombits(le.Uint32(raw[cursor:]))
	cursor += 4

	var payload []byte
	if !info.IsDynamic() {
		size := int(info.Size)
		if cursor+size > len(raw) {
			d.warn("record at offset %d truncated mid-payload", indexInFile)
			return resync, true
		}
		payload = raw[cursor : cursor+size]
		cursor += size
	} else {
		span, err := dynamicPayloadSpan(info.Items[0].Type, raw[cursor:])
		if err != nil {
			d.warn("record at offset %d: %v", indexInFile, err)
			return resync, true
		}
		if cursor+span > len(raw) {
			d.warn("record at offset %d: dynamic payload runs past end of file", indexInFile)
			return resync, true
		}
		payload = raw[cursor : cursor+span]
		cursor += span
	}

	if cursor >= len(raw) {
		d.warn("record at offset %d truncated before checksum", indexInFile)
		return resync, true
	}
	wantSum := raw[cursor]
	gotSum := checksum.Sum(0, raw[indexInFile:cursor])
	if gotSum != wantSum {
		d.warn("record at offset %d failed checksum, dropped", indexInFile)
		return resync, true
	}

	var stored []byte
	if !info.IsDynamic() || loadDynamicFullData {
		stored = append([]byte(nil), payload...)
	}

	if prev := d.data[id]; len(prev) > 0 && prev[len(prev)-1].TimestampS == timestampS {
		d.warn("package %d recorded duplicate timestamp %f", id, timestampS)
	}

	d.data[id] = append(d.data[id], PackageDataPerTick{
		TimestampS:  timestampS,
		IndexInFile: int64(indexInFile),
		Size:        recordOffset,
		Data:        stored,
	})

	if !d.haveTs {
		d.tsMin, d.tsMax = timestampS, timestampS
		d.haveTs = true
	} else {
		d.tsMin = min(d.tsMin, timestampS)
		d.tsMax = max(d.tsMax, timestampS)
	}

	return resync, true
}

func (d *Decoder) warn(msg string, args ...any) {
	d.warnings = append(d.warnings, fmt.Sprintf(msg, args...))
}

// LoadBinaryDataFromLogFile seeks to offset and reads exactly size bytes
// from the file opened by LoadLogFile.
func (d *Decoder) LoadBinaryDataFromLogFile(offset int64, size uint32) ([]byte, error) {
	if d.file == nil {
		return nil, errs.ErrNotOpen
	}

	if _, err := d.file.Seek(offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrIoOpenFailed, err)
	}

	buf := make([]byte, size)
	if _, err := io.ReadFull(d.file, buf); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrShortRead, err)
	}

	return buf, nil
}

// CleanUp drops the schema and decoded data, closes any open handle, and
// resets the decoder to its zero state.
func (d *Decoder) CleanUp() {
	if d.file != nil {
		d.file.Close()
	}

	d.path = ""
	d.file = nil
	d.registry = nil
	d.data = nil
	d.tsMin, d.tsMax = 0, 0
	d.haveTs = false
	d.warnings = nil
}

// Schema returns every registered package, in schema-block order.
func (d *Decoder) Schema() []schema.PackageInfo {
	if d.registry == nil {
		return nil
	}

	return d.registry.All()
}

// Data returns the decoded per-package tick index. The map and its slices
// must not be mutated by the caller.
func (d *Decoder) Data() map[uint16][]PackageDataPerTick {
	return d.data
}

// TimestampRange returns the minimum and maximum timestamp seen across every
// decoded record.
func (d *Decoder) TimestampRange() (min, max float32) {
	return d.tsMin, d.tsMax
}

// Warnings returns every warning accumulated by the most recent LoadLogFile
// call, in the order they occurred.
func (d *Decoder) Warnings() []string {
	return d.warnings
}

// ReportAllRegisteredPackages renders a human-readable summary of the
// schema parsed from Part 2.
func (d *Decoder) ReportAllRegisteredPackages() string {
	var b strings.Builder
	for _, p := range d.Schema() {
		fmt.Fprintf(&b, "package %d %q: size=%d items=%d\n", p.ID, p.Name, p.Size, len(p.Items))
		for _, it := range p.Items {
			fmt.Fprintf(&b, "  %s %q offset=%d\n", it.Type, it.Name, it.Offset)
		}
	}

	return b.String()
}

// ReportAllLoadedPackages renders a human-readable summary of the decoded
// per-package tick counts and timestamp range.
func (d *Decoder) ReportAllLoadedPackages() string {
	var b strings.Builder
	for _, p := range d.Schema() {
		ticks := d.data[p.ID]
		fmt.Fprintf(&b, "package %d %q: %d ticks\n", p.ID, p.Name, len(ticks))
	}
	min, max := d.TimestampRange()
	fmt.Fprintf(&b, "timestamp range: [%f, %f]\n", min, max)

	return b.String()
}
