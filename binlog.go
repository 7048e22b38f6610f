// Package binlog provides a self-describing binary format for recording
// heterogeneous, timestamped telemetry streams from a robotics/SLAM stack
// (inertial samples, barometer readings, images, matrices, point clouds,
// poses, and other structured packages) to a single append-only file, and
// for decoding that file back, either eagerly or lazily with on-demand
// payload retrieval.
//
// # Core Features
//
//   - Self-describing schema: every field's name, type, and byte offset is
//     recorded in the file, not just in calling code.
//   - Crash-safe recording: every record is self-framed and self-checksummed,
//     so a process that dies mid-write leaves a file decodable up to the
//     last complete record.
//   - Eager or lazy decoding: load payloads up front, or parse just the
//     framing and fetch payload bytes later by file offset.
//   - Dynamic payload families for images, matrices, PNG blobs, point
//     clouds, and line clouds, alongside fixed-width primitive and composite
//     (vector3, pose6dof) items.
//   - A CSV ingester that infers a schema from a header line and converts
//     column-oriented telemetry into the same binary format.
//
// # Basic Usage
//
// Recording:
//
//	enc := binlog.NewEncoder()
//	_ = enc.CreateLogFile("session.binlog")
//	_ = enc.RegisterPackage(1, "imu", []schema.PackageItemInfo{
//	    {Type: format.Float32, Name: "gyro_x"},
//	    {Type: format.Float32, Name: "gyro_y"},
//	    {Type: format.Float32, Name: "gyro_z"},
//	})
//	_ = enc.PrepareForRecording()
//	_ = enc.RecordPackage(1, payloadBytes, 0.1)
//	enc.CleanUp()
//
// Decoding:
//
//	dec := binlog.NewDecoder()
//	_ = dec.LoadLogFile("session.binlog", true)
//	for _, tick := range dec.Data()[1] {
//	    fmt.Printf("t=%f size=%d\n", tick.TimestampS, tick.Size)
//	}
//
// # Package Structure
//
// This package re-exports the most commonly used types and functions from
// codec, schema, and csv for convenience; item type codes (format.Float32
// and the rest) come from the format package directly. Advanced use — custom
// item validation, direct schema-block access, dynamic payload helpers —
// should import those packages directly.
package binlog

import (
	"github.com/horizon1026/binlog/codec"
	"github.com/horizon1026/binlog/csv"
	"github.com/horizon1026/binlog/schema"
)

// Encoder records packages to a binary log file. See codec.Encoder.
type Encoder = codec.Encoder

// Decoder loads and decodes a binary log file. See codec.Decoder.
type Decoder = codec.Decoder

// PackageDataPerTick is one decoded record. See codec.PackageDataPerTick.
type PackageDataPerTick = codec.PackageDataPerTick

// PackageInfo is a registered package's schema. See schema.PackageInfo.
type PackageInfo = schema.PackageInfo

// PackageItemInfo is one field within a package payload. See
// schema.PackageItemInfo.
type PackageItemInfo = schema.PackageItemInfo

// Point3 is one (x, y, z) sample of a point-cloud payload. See codec.Point3.
type Point3 = codec.Point3

// Line3 is one endpoint pair of a line-cloud payload. See codec.Line3.
type Line3 = codec.Line3

// NewEncoder returns an Encoder with an empty schema and no open file.
func NewEncoder() *Encoder {
	return codec.NewEncoder()
}

// NewDecoder returns a Decoder with no file open.
func NewDecoder() *Decoder {
	return codec.NewDecoder()
}

// CreateLogFileByCsvFile infers a schema from csvPath's header and converts
// its rows into a binary log file at binlogPath. See csv.IngestCSV.
func CreateLogFileByCsvFile(csvPath, binlogPath string) error {
	return csv.IngestCSV(csvPath, binlogPath)
}
