package csv

import (
	"strings"

	"github.com/horizon1026/binlog/format"
	"github.com/horizon1026/binlog/schema"
)

var vector3Axes = []string{"x", "y", "z"}
var pose6DofAxes = []string{"x", "y", "z", "w", "x", "y", "z"}

// foldGroup walks a package's columns in header order and folds recognized
// runs into composite items, per §4.8 step 3. indices are the column
// indices belonging to this group, in header order; names holds the
// matching display names (group prefix already stripped).
//
// It returns the package's items, alongside the header column indices each
// item draws its values from, in the same order as items.
func foldGroup(names []string, indices []int) ([]schema.PackageItemInfo, [][]int) {
	var items []schema.PackageItemInfo
	var cols [][]int

	i := 0
	for i < len(names) {
		if i+7 <= len(names) &&
			endsWithAxes(names[i:i+7], pose6DofAxes) &&
			strings.HasPrefix(names[i], "p_") &&
			strings.HasPrefix(names[i+3], "q_") {
			items = append(items, schema.PackageItemInfo{Type: format.Pose6Dof, Name: stripAxis(names[i])})
			cols = append(cols, append([]int{}, indices[i:i+7]...))
			i += 7
			continue
		}

		if i+3 <= len(names) && endsWithAxes(names[i:i+3], vector3Axes) {
			items = append(items, schema.PackageItemInfo{Type: format.Vector3, Name: stripAxis(names[i])})
			cols = append(cols, append([]int{}, indices[i:i+3]...))
			i += 3
			continue
		}

		items = append(items, schema.PackageItemInfo{Type: format.Float32, Name: names[i]})
		cols = append(cols, []int{indices[i]})
		i++
	}

	return items, cols
}

func endsWithAxes(names, axes []string) bool {
	for i, axis := range axes {
		if !strings.HasSuffix(names[i], axis) {
			return false
		}
	}

	return true
}

// stripAxis removes a composite item's trailing axis token from its first
// member's name, e.g. "p_x" -> "p", "vel_x" -> "vel".
func stripAxis(name string) string {
	if strings.HasSuffix(name, "_x") {
		return name[:len(name)-2]
	}
	if strings.HasSuffix(name, "x") {
		return name[:len(name)-1]
	}

	return name
}
