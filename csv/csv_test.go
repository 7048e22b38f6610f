package csv

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/horizon1026/binlog/format"
)

func TestFindTimestampColumn_ExactMatch(t *testing.T) {
	idx, scale, err := findTimestampColumn([]string{"a", "timestamp", "b"})
	require.NoError(t, err)
	require.Equal(t, 1, idx)
	require.Equal(t, 1e-6, scale)
}

func TestFindTimestampColumn_SuffixMatch(t *testing.T) {
	idx, scale, err := findTimestampColumn([]string{"imu/gyro_x", "sensor_timestamp_ns"})
	require.NoError(t, err)
	require.Equal(t, 1, idx)
	require.Equal(t, 1e-9, scale)
}

func TestFindTimestampColumn_NoMatchFails(t *testing.T) {
	_, _, err := findTimestampColumn([]string{"a", "b"})
	require.Error(t, err)
}

func TestGroupColumns_DefaultPackageForSlashless(t *testing.T) {
	groups, order := groupColumns([]string{"timestamp", "press", "height"}, 0)
	require.Equal(t, []string{"default_package"}, order)
	require.Equal(t, []int{1, 2}, groups["default_package"])
}

func TestGroupColumns_PrefixGrouping(t *testing.T) {
	header := []string{"timestamp", "imu/gyro_x", "imu/gyro_y", "baro/press"}
	groups, order := groupColumns(header, 0)
	require.Equal(t, []string{"imu", "baro"}, order)
	require.Equal(t, []int{1, 2}, groups["imu"])
	require.Equal(t, []int{3}, groups["baro"])
}

func TestFoldGroup_Vector3Folding(t *testing.T) {
	names := []string{"vel_x", "vel_y", "vel_z", "temp"}
	indices := []int{1, 2, 3, 4}

	items, cols := foldGroup(names, indices)
	require.Len(t, items, 2)
	require.Equal(t, format.Vector3, items[0].Type)
	require.Equal(t, "vel", items[0].Name)
	require.Equal(t, []int{1, 2, 3}, cols[0])
	require.Equal(t, format.Float32, items[1].Type)
	require.Equal(t, "temp", items[1].Name)
	require.Equal(t, []int{4}, cols[1])
}

func TestFoldGroup_Pose6DofFolding(t *testing.T) {
	names := []string{"p_x", "p_y", "p_z", "q_w", "q_x", "q_y", "q_z"}
	indices := []int{1, 2, 3, 4, 5, 6, 7}

	items, cols := foldGroup(names, indices)
	require.Len(t, items, 1)
	require.Equal(t, format.Pose6Dof, items[0].Type)
	require.Equal(t, "p", items[0].Name)
	require.Equal(t, []int{1, 2, 3, 4, 5, 6, 7}, cols[0])
}

func TestFoldGroup_NoRunFallsBackToFloat(t *testing.T) {
	names := []string{"gyro_x", "gyro_y"} // only 2, not a full vector3 run
	indices := []int{1, 2}

	items, _ := foldGroup(names, indices)
	require.Len(t, items, 2)
	require.Equal(t, format.Float32, items[0].Type)
	require.Equal(t, format.Float32, items[1].Type)
}

func TestDisplayName_StripsGroupPrefix(t *testing.T) {
	require.Equal(t, "gyro_x", displayName("imu", "imu/gyro_x"))
	require.Equal(t, "press", displayName("default_package", "press"))
}
