// Package schema models the package/item registry shared by the encoder and
// decoder: the in-memory representation of Part 2 of the binary log wire
// format, plus its serialization and parsing.
package schema

import "github.com/horizon1026/binlog/format"

// PackageItemInfo describes a single named field within a package payload.
//
// Offset is assigned at registration (encoder) or schema-block parse
// (decoder) time as the running sum of the widths of the items preceding it
// within the same package; callers never set it directly.
type PackageItemInfo struct {
	Type   format.ItemType
	Offset uint32
	Name   string
}

// width returns the item's fixed wire width, or 0 if dynamic.
func (i PackageItemInfo) width() uint32 {
	return i.Type.Width()
}
