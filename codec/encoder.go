package codec

import (
	"fmt"
	"os"
	"time"

	"github.com/horizon1026/binlog/errs"
	"github.com/horizon1026/binlog/format"
	"github.com/horizon1026/binlog/schema"
)

// Encoder writes a binary log file: Part 1 on CreateLogFile, Part 2 on
// PrepareForRecording, then one self-framed Part-3 record per RecordPackage
// call.
//
// An Encoder owns its file handle exclusively and is not safe for concurrent
// use. It can be reused for another file: CreateLogFile closes any handle
// already open and starts over with an empty schema.
type Encoder struct {
	file     *os.File
	registry *schema.Registry
	prepared bool

	startTime time.Time
	lastTimeS float32
}

// NewEncoder returns an Encoder with an empty schema and no open file. The
// monotonic clock used to compute timestamps when the caller omits one is
// captured now.
func NewEncoder() *Encoder {
	return &Encoder{
		registry:  schema.NewRegistry(),
		startTime: time.Now(),
	}
}

// CreateLogFile closes any file already open, truncates or creates path for
// binary writing, and writes the Part 1 header.
func (e *Encoder) CreateLogFile(path string) error {
	if e.file != nil {
		e.file.Close()
		e.file = nil
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrIoOpenFailed, err)
	}

	if _, err := f.WriteString(format.Header); err != nil {
		f.Close()
		return fmt.Errorf("%w: %v", errs.ErrIoOpenFailed, err)
	}

	e.file = f
	e.registry = schema.NewRegistry()
	e.prepared = false
	e.lastTimeS = 0

	return nil
}

// RegisterPackage validates and stores a package definition. It fails if
// items is empty, a dynamic item shares a package with any other item, id is
// already registered, or PrepareForRecording has already been called (the
// format has no way to append schema entries after Part 2 is written).
func (e *Encoder) RegisterPackage(id uint16, name string, items []schema.PackageItemInfo) error {
	if e.prepared {
		return fmt.Errorf("%w: cannot register package %d", errs.ErrRecordingAlreadyPrepared, id)
	}

	info, err := schema.NewPackageInfo(id, name, items)
	if err != nil {
		return err
	}

	return e.registry.Register(info)
}

// PrepareForRecording serializes Part 2 from the current schema and writes
// it to the open file. After this call, RegisterPackage always fails.
func (e *Encoder) PrepareForRecording() error {
	if e.file == nil {
		return errs.ErrNotOpen
	}
	if e.registry.Len() == 0 {
		return errs.ErrNoPackagesRegistered
	}

	block := schema.WriteBlock(e.registry.All())
	if _, err := e.file.Write(block); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrIoOpenFailed, err)
	}

	e.prepared = true

	return nil
}

// CurrentRecordedTimestamp returns the timestamp, in seconds, of the last
// record written (caller-supplied or computed).
func (e *Encoder) CurrentRecordedTimestamp() float32 {
	return e.lastTimeS
}

// CleanUp closes the file handle and resets the encoder to its zero state.
func (e *Encoder) CleanUp() {
	if e.file != nil {
		e.file.Close()
	}

	e.file = nil
	e.registry = schema.NewRegistry()
	e.prepared = false
	e.lastTimeS = 0
}

func (e *Encoder) resolveTimestamp(timestampS []float32) float32 {
	if len(timestampS) > 0 {
		return timestampS[0]
	}

	return float32(time.Since(e.startTime).Seconds())
}

func (e *Encoder) writeRecord(id uint16, payload []byte, timestampS []float32) error {
	if e.file == nil {
		return errs.ErrNotOpen
	}
	if !e.prepared {
		return errs.ErrNotPreparedForRecording
	}

	info, ok := e.registry.Get(id)
	if !ok {
		return fmt.Errorf("%w: id %d", errs.ErrNotRegistered, id)
	}
	if !info.IsDynamic() && uint32(len(payload)) != info.Size {
		return fmt.Errorf("%w: package %d expects %d bytes, got %d", errs.ErrPayloadMismatch, id, info.Size, len(payload))
	}

	ts := e.resolveTimestamp(timestampS)
	record := buildRecord(id, ts, payload)
	if _, err := e.file.Write(record); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrIoOpenFailed, err)
	}

	e.lastTimeS = ts

	return nil
}

// RecordPackage writes one Part-3 record for a static package. payload must
// be exactly the registered package's Size bytes, laid out per its item
// offsets. timestampS is optional; when omitted, the encoder computes
// elapsed time since construction.
func (e *Encoder) RecordPackage(id uint16, payload []byte, timestampS ...float32) error {
	return e.writeRecord(id, payload, timestampS)
}

// RecordImage writes one Part-3 record for an image-family dynamic package.
func (e *Encoder) RecordImage(id uint16, channels uint8, rows, cols uint16, pixels []byte, timestampS ...float32) error {
	payload, err := encodeImage(channels, rows, cols, pixels)
	if err != nil {
		return err
	}

	return e.writeRecord(id, payload, timestampS)
}

// RecordMatrix writes one Part-3 record for a matrix-family dynamic package.
// elements is row-major and must have exactly rows*cols entries.
func (e *Encoder) RecordMatrix(id uint16, rows, cols uint16, elements []float32, timestampS ...float32) error {
	payload, err := encodeMatrix(rows, cols, elements)
	if err != nil {
		return err
	}

	return e.writeRecord(id, payload, timestampS)
}

// RecordPNGBlob writes one Part-3 record for a png-image dynamic package.
// data is stored opaque, length-prefixed.
func (e *Encoder) RecordPNGBlob(id uint16, data []byte, timestampS ...float32) error {
	return e.writeRecord(id, encodePNGBlob(data), timestampS)
}

// RecordPointCloud writes one Part-3 record for a point-cloud dynamic
// package.
func (e *Encoder) RecordPointCloud(id uint16, points []Point3, timestampS ...float32) error {
	return e.writeRecord(id, encodePointCloud(points), timestampS)
}

// RecordLineCloud writes one Part-3 record for a line-cloud dynamic
// package.
func (e *Encoder) RecordLineCloud(id uint16, lines []Line3, timestampS ...float32) error {
	return e.writeRecord(id, encodeLineCloud(lines), timestampS)
}
