// Package errs defines sentinel errors shared by the schema, codec, and csv
// packages. Callers use errors.Is against these values; the surrounding
// fmt.Errorf("%w: ...", ...) call adds the offending id/name/offset.
package errs

import "errors"

var (
	// ErrIoOpenFailed is returned when a log file cannot be opened for read or write.
	ErrIoOpenFailed = errors.New("failed to open file")

	// ErrNotOpen is returned when an operation requires an open file handle but none exists.
	ErrNotOpen = errors.New("no file is open")

	// ErrSchemaInvalid is returned when a package definition violates a schema invariant:
	// empty items, a dynamic item mixed with others, or a name exceeding 255 bytes.
	ErrSchemaInvalid = errors.New("invalid package schema")

	// ErrPackageAlreadyRegistered is returned when RegisterPackage is called with a duplicate id.
	ErrPackageAlreadyRegistered = errors.New("package id already registered")

	// ErrNotRegistered is returned when an operation references an unknown package id.
	ErrNotRegistered = errors.New("package id not registered")

	// ErrRecordingAlreadyPrepared is returned when RegisterPackage is called after PrepareForRecording.
	ErrRecordingAlreadyPrepared = errors.New("schema is already closed for recording")

	// ErrNoPackagesRegistered is returned when PrepareForRecording is called with an empty schema.
	ErrNoPackagesRegistered = errors.New("no package registered")

	// ErrNotPreparedForRecording is returned when RecordPackage is called before PrepareForRecording.
	ErrNotPreparedForRecording = errors.New("encoder is not prepared for recording")

	// ErrInvalidHeader is returned when the fixed header literal does not match a known value.
	ErrInvalidHeader = errors.New("invalid log file header")

	// ErrChecksumMismatch is returned when an additive checksum fails to verify.
	ErrChecksumMismatch = errors.New("checksum mismatch")

	// ErrRecordCorrupt names a Part-3 record that fails its checksum or is truncated mid-record.
	// The decoder does not return it: it records a warning and skips such a record.
	ErrRecordCorrupt = errors.New("record is corrupt")

	// ErrUnsupportedDynamicType is returned when a dynamic record's item type is not recognized.
	ErrUnsupportedDynamicType = errors.New("unsupported dynamic item type")

	// ErrPayloadMismatch is returned when a caller-supplied payload does not match the registered schema.
	ErrPayloadMismatch = errors.New("payload does not match registered schema")

	// ErrShortRead is returned when a read returns fewer bytes than requested.
	ErrShortRead = errors.New("short read")
)
