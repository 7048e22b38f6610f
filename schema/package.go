package schema

import (
	"fmt"
	"math"

	"github.com/horizon1026/binlog/errs"
)

// maxNameLen is the largest value a u8 name-length prefix can carry.
const maxNameLen = math.MaxUint8

// PackageInfo is the registered shape of one package: its id, display name,
// fixed total payload size (0 if dynamic), and ordered items.
//
// A PackageInfo is immutable once returned by NewPackageInfo: Size and each
// item's Offset are computed once and never revisited.
type PackageInfo struct {
	ID    uint16
	Name  string
	Size  uint32
	Items []PackageItemInfo
}

// IsDynamic reports whether the package's payload size is determined by a
// prefix within the payload itself rather than a fixed schema width.
func (p PackageInfo) IsDynamic() bool {
	return p.Size == 0
}

// NewPackageInfo validates a candidate package definition and returns a
// PackageInfo with Size and every item's Offset computed.
//
// It rejects a package with no items, a dynamic item sharing a package with
// any other item, an unknown item type, or a name (package or item)
// exceeding 255 bytes. The returned items are a copy; the caller's slice is
// not retained.
func NewPackageInfo(id uint16, name string, items []PackageItemInfo) (PackageInfo, error) {
	if len(items) == 0 {
		return PackageInfo{}, fmt.Errorf("%w: package %d (%q) has no items", errs.ErrSchemaInvalid, id, name)
	}
	if len(name) > maxNameLen {
		return PackageInfo{}, fmt.Errorf("%w: package %d name exceeds %d bytes", errs.ErrSchemaInvalid, id, maxNameLen)
	}

	hasDynamic := false
	for _, it := range items {
		if !it.Type.IsValid() {
			return PackageInfo{}, fmt.Errorf("%w: package %d item %q has unknown type %d", errs.ErrSchemaInvalid, id, it.Name, it.Type)
		}
		if len(it.Name) > maxNameLen {
			return PackageInfo{}, fmt.Errorf("%w: package %d item name %q exceeds %d bytes", errs.ErrSchemaInvalid, id, it.Name, maxNameLen)
		}
		if it.Type.IsDynamic() {
			hasDynamic = true
		}
	}
	if hasDynamic && len(items) > 1 {
		return PackageInfo{}, fmt.Errorf("%w: package %d mixes a dynamic item with %d other items", errs.ErrSchemaInvalid, id, len(items)-1)
	}

	out := make([]PackageItemInfo, len(items))
	var offset uint32
	var size uint32
	for i, it := range items {
		out[i] = PackageItemInfo{Type: it.Type, Name: it.Name, Offset: offset}
		w := it.width()
		offset += w
		size += w
	}
	if hasDynamic {
		size = 0
	}

	return PackageInfo{ID: id, Name: name, Size: size, Items: out}, nil
}
