package schema

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/horizon1026/binlog/errs"
	"github.com/horizon1026/binlog/format"
)

func mustPackage(t *testing.T, id uint16, name string, items []PackageItemInfo) PackageInfo {
	t.Helper()
	p, err := NewPackageInfo(id, name, items)
	require.NoError(t, err)

	return p
}

func TestWriteBlockParseBlock_RoundTrip(t *testing.T) {
	pkgs := []PackageInfo{
		mustPackage(t, 1, "imu", []PackageItemInfo{
			{Type: format.Float32, Name: "gyro_x"},
			{Type: format.Float32, Name: "gyro_y"},
			{Type: format.Uint8, Name: "valid"},
		}),
		mustPackage(t, 3, "gray image", []PackageItemInfo{
			{Type: format.Image, Name: "left"},
		}),
	}

	block := WriteBlock(pkgs)
	parsed, consumed, err := ParseBlock(block)
	require.NoError(t, err)
	require.Equal(t, uint32(len(block)), consumed)
	require.Equal(t, pkgs, parsed)
}

func TestParseBlock_ChecksumMismatchAborts(t *testing.T) {
	pkgs := []PackageInfo{
		mustPackage(t, 1, "imu", []PackageItemInfo{{Type: format.Float32, Name: "x"}}),
	}
	block := WriteBlock(pkgs)
	block[len(block)-1] ^= 0xFF

	_, _, err := ParseBlock(block)
	require.ErrorIs(t, err, errs.ErrChecksumMismatch)
}

func TestParseBlock_ShortDataRejected(t *testing.T) {
	_, _, err := ParseBlock([]byte{0x01, 0x02})
	require.ErrorIs(t, err, errs.ErrShortRead)
}

func TestParseBlock_MultiplePackagesStableOrder(t *testing.T) {
	pkgs := []PackageInfo{
		mustPackage(t, 5, "baro", []PackageItemInfo{{Type: format.Uint32, Name: "press"}, {Type: format.Float32, Name: "height"}}),
		mustPackage(t, 2, "matrix", []PackageItemInfo{{Type: format.Matrix, Name: "m"}}),
		mustPackage(t, 9, "pose", []PackageItemInfo{{Type: format.Pose6Dof, Name: "pose"}}),
	}

	block := WriteBlock(pkgs)
	parsed, _, err := ParseBlock(block)
	require.NoError(t, err)

	ids := make([]uint16, 0, 3)
	for _, p := range parsed {
		ids = append(ids, p.ID)
	}
	require.Equal(t, []uint16{5, 2, 9}, ids)
}
