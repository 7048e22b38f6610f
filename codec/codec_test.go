package codec

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/horizon1026/binlog/errs"
	"github.com/horizon1026/binlog/format"
	"github.com/horizon1026/binlog/schema"
)

func registerIMU(t *testing.T, e *Encoder) {
	t.Helper()
	require.NoError(t, e.RegisterPackage(1, "imu", []schema.PackageItemInfo{
		{Type: format.Float32, Name: "gyro_x"},
		{Type: format.Float32, Name: "gyro_y"},
		{Type: format.Float32, Name: "gyro_z"},
		{Type: format.Uint8, Name: "valid"},
	}))
}

func TestEncodeDecode_StaticRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.binlog")

	e := NewEncoder()
	require.NoError(t, e.CreateLogFile(path))
	registerIMU(t, e)
	require.NoError(t, e.PrepareForRecording())

	raw := make([]byte, 13)
	le.PutUint32(raw[0:4], math.Float32bits(1.0))
	le.PutUint32(raw[4:8], math.Float32bits(2.0))
	le.PutUint32(raw[8:12], math.Float32bits(3.0))
	raw[12] = 1

	require.NoError(t, e.RecordPackage(1, raw, 0.5))
	require.Equal(t, float32(0.5), e.CurrentRecordedTimestamp())
	e.CleanUp()

	d := NewDecoder()
	require.NoError(t, d.LoadLogFile(path, true))

	ticks := d.Data()[1]
	require.Len(t, ticks, 1)
	require.Equal(t, float32(0.5), ticks[0].TimestampS)
	require.Equal(t, raw, ticks[0].Data)

	min, max := d.TimestampRange()
	require.Equal(t, float32(0.5), min)
	require.Equal(t, float32(0.5), max)
}

func TestEncodeDecode_MultipleRecordsTimestampRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.binlog")

	e := NewEncoder()
	require.NoError(t, e.CreateLogFile(path))
	registerIMU(t, e)
	require.NoError(t, e.PrepareForRecording())

	payload := make([]byte, 13)
	for _, ts := range []float32{0.1, 0.2, 0.3} {
		require.NoError(t, e.RecordPackage(1, payload, ts))
	}
	e.CleanUp()

	d := NewDecoder()
	require.NoError(t, d.LoadLogFile(path, true))

	ticks := d.Data()[1]
	require.Len(t, ticks, 3)
	min, max := d.TimestampRange()
	require.InDelta(t, float32(0.1), min, 1e-6)
	require.InDelta(t, float32(0.3), max, 1e-6)
}

func TestEncodeDecode_DynamicLazyModeOmitsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.binlog")

	e := NewEncoder()
	require.NoError(t, e.CreateLogFile(path))
	require.NoError(t, e.RegisterPackage(3, "gray image", []schema.PackageItemInfo{
		{Type: format.Image, Name: "left"},
	}))
	require.NoError(t, e.PrepareForRecording())

	pixels := make([]byte, 2*2)
	for i := range pixels {
		pixels[i] = byte(i)
	}
	require.NoError(t, e.RecordImage(3, 1, 2, 2, pixels, 1.0))
	e.CleanUp()

	d := NewDecoder()
	require.NoError(t, d.LoadLogFile(path, false))

	ticks := d.Data()[3]
	require.Len(t, ticks, 1)
	require.Nil(t, ticks[0].Data)
	require.Positive(t, ticks[0].Size)

	raw, err := d.LoadBinaryDataFromLogFile(ticks[0].IndexInFile, ticks[0].Size)
	require.NoError(t, err)

	_, rows, cols, gotPixels, err := DecodeImage(raw[frameRecordHeaderSize : len(raw)-1])
	require.NoError(t, err)
	require.Equal(t, uint16(2), rows)
	require.Equal(t, uint16(2), cols)
	require.Equal(t, pixels, gotPixels)
}

func TestEncodeDecode_DynamicEagerModeRetainsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.binlog")

	e := NewEncoder()
	require.NoError(t, e.CreateLogFile(path))
	require.NoError(t, e.RegisterPackage(5, "matrix", []schema.PackageItemInfo{
		{Type: format.Matrix, Name: "m"},
	}))
	require.NoError(t, e.PrepareForRecording())

	elements := []float32{1, 2, 3, 4, 5, 6}
	require.NoError(t, e.RecordMatrix(5, 2, 3, elements, 0.25))
	e.CleanUp()

	d := NewDecoder()
	require.NoError(t, d.LoadLogFile(path, true))

	ticks := d.Data()[5]
	require.Len(t, ticks, 1)
	require.NotNil(t, ticks[0].Data)

	rows, cols, got, err := DecodeMatrix(ticks[0].Data)
	require.NoError(t, err)
	require.Equal(t, uint16(2), rows)
	require.Equal(t, uint16(3), cols)
	require.Equal(t, elements, got)
}

func TestDecoder_ChecksumFlipDropsRecordButRecovers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.binlog")

	e := NewEncoder()
	require.NoError(t, e.CreateLogFile(path))
	registerIMU(t, e)
	require.NoError(t, e.PrepareForRecording())

	payload := make([]byte, 13)
	require.NoError(t, e.RecordPackage(1, payload, 0.1))
	require.NoError(t, e.RecordPackage(1, payload, 0.2))
	e.CleanUp()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	recordStart := len(raw) - recordLen(payload)
	raw[recordStart+4+2+4] ^= 0xFF // flip first payload byte of the 2nd record
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	d := NewDecoder()
	require.NoError(t, d.LoadLogFile(path, true))

	ticks := d.Data()[1]
	require.Len(t, ticks, 1) // only the first, undamaged record survives
	require.NotEmpty(t, d.Warnings())
}

func TestDecoder_TruncatedTrailingRecordIsSkippedNotFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.binlog")

	e := NewEncoder()
	require.NoError(t, e.CreateLogFile(path))
	registerIMU(t, e)
	require.NoError(t, e.PrepareForRecording())

	payload := make([]byte, 13)
	require.NoError(t, e.RecordPackage(1, payload, 0.1))
	require.NoError(t, e.RecordPackage(1, payload, 0.2))
	e.CleanUp()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	truncated := raw[:len(raw)-5] // cut into the middle of the last record
	require.NoError(t, os.WriteFile(path, truncated, 0o644))

	d := NewDecoder()
	require.NoError(t, d.LoadLogFile(path, true))

	ticks := d.Data()[1]
	require.Len(t, ticks, 1)
}

func TestDecoder_UnknownHeaderRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.binlog")
	require.NoError(t, os.WriteFile(path, []byte("NOT_A_BINLOG___"), 0o644))

	d := NewDecoder()
	err := d.LoadLogFile(path, true)
	require.ErrorIs(t, err, errs.ErrInvalidHeader)
}

func TestDecoder_LegacyHeaderAccepted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.binlog")

	e := NewEncoder()
	require.NoError(t, e.CreateLogFile(path))
	registerIMU(t, e)
	require.NoError(t, e.PrepareForRecording())
	require.NoError(t, e.RecordPackage(1, make([]byte, 13), 0.1))
	e.CleanUp()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	raw = append([]byte(format.LegacyHeader), raw[len(format.Header):]...)
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	d := NewDecoder()
	require.NoError(t, d.LoadLogFile(path, true))
	require.Len(t, d.Data()[1], 1)
}

func TestEncoder_RegisterAfterPrepareRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.binlog")

	e := NewEncoder()
	require.NoError(t, e.CreateLogFile(path))
	registerIMU(t, e)
	require.NoError(t, e.PrepareForRecording())

	err := e.RegisterPackage(2, "baro", []schema.PackageItemInfo{{Type: format.Uint32, Name: "press"}})
	require.ErrorIs(t, err, errs.ErrRecordingAlreadyPrepared)
}

func TestEncoder_RecordBeforePrepareRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.binlog")

	e := NewEncoder()
	require.NoError(t, e.CreateLogFile(path))
	registerIMU(t, e)

	err := e.RecordPackage(1, make([]byte, 13), 0.1)
	require.ErrorIs(t, err, errs.ErrNotPreparedForRecording)
}

func TestEncoder_RecordUnregisteredIDRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.binlog")

	e := NewEncoder()
	require.NoError(t, e.CreateLogFile(path))
	registerIMU(t, e)
	require.NoError(t, e.PrepareForRecording())

	err := e.RecordPackage(99, make([]byte, 13), 0.1)
	require.ErrorIs(t, err, errs.ErrNotRegistered)
}

func TestEncoder_PayloadSizeMismatchRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.binlog")

	e := NewEncoder()
	require.NoError(t, e.CreateLogFile(path))
	registerIMU(t, e)
	require.NoError(t, e.PrepareForRecording())

	err := e.RecordPackage(1, make([]byte, 4), 0.1)
	require.ErrorIs(t, err, errs.ErrPayloadMismatch)
}

func TestEncoder_PrepareWithNoPackagesRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.binlog")

	e := NewEncoder()
	require.NoError(t, e.CreateLogFile(path))

	err := e.PrepareForRecording()
	require.ErrorIs(t, err, errs.ErrNoPackagesRegistered)
}

func TestSchemaRoundTrip_MatchesEncoderRegistration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.binlog")

	e := NewEncoder()
	require.NoError(t, e.CreateLogFile(path))
	registerIMU(t, e)
	require.NoError(t, e.RegisterPackage(3, "gray image", []schema.PackageItemInfo{{Type: format.Image, Name: "left"}}))
	require.NoError(t, e.PrepareForRecording())
	e.CleanUp()

	d := NewDecoder()
	require.NoError(t, d.LoadLogFile(path, true))

	got := d.Schema()
	require.Len(t, got, 2)
	require.Equal(t, uint16(1), got[0].ID)
	require.Equal(t, "imu", got[0].Name)
	require.Equal(t, uint32(13), got[0].Size)
	require.Equal(t, uint16(3), got[1].ID)
	require.True(t, got[1].IsDynamic())
}

func recordLen(payload []byte) int {
	return frameRecordHeaderSize + len(payload) + 1
}
