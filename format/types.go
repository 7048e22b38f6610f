// Package format defines the item type tags used by the binary log wire format
// and their fixed byte widths.
package format

import "fmt"

// ItemType is a tagged enumeration of the primitive and composite value kinds
// that can appear as a package item in the binary log.
//
// Codes 0-9 are fixed-width primitives. Codes 10-11 are fixed-width composites
// (vector3, pose6dof). Codes 12-16 are dynamic: their on-disk size is carried
// by a prefix inside the payload itself rather than by the schema.
type ItemType uint8

const (
	Uint8   ItemType = 0
	Int8    ItemType = 1
	Uint16  ItemType = 2
	Int16   ItemType = 3
	Uint32  ItemType = 4
	Int32   ItemType = 5
	Uint64  ItemType = 6
	Int64   ItemType = 7
	Float32 ItemType = 8
	Float64 ItemType = 9

	Vector3  ItemType = 10 // 3 x f32: x, y, z
	Pose6Dof ItemType = 11 // 7 x f32: p_x, p_y, p_z, q_w, q_x, q_y, q_z

	Image      ItemType = 12 // dynamic: channels, rows, cols, pixel bytes
	Matrix     ItemType = 13 // dynamic: rows, cols, row-major f32 elements
	PNGImage   ItemType = 14 // dynamic: opaque length-prefixed byte blob
	PointCloud ItemType = 15 // dynamic: length-prefixed (x,y,z) f32 triples
	LineCloud  ItemType = 16 // dynamic: length-prefixed (x,y,z,x,y,z) f32 sextets
)

// widths holds the fixed byte width of each item type. A width of 0 denotes a
// dynamic type whose size is determined by a prefix inside its own payload.
var widths = [...]uint32{
	Uint8:   1,
	Int8:    1,
	Uint16:  2,
	Int16:   2,
	Uint32:  4,
	Int32:   4,
	Uint64:  8,
	Int64:   8,
	Float32: 4,
	Float64: 8,

	Vector3:  12,
	Pose6Dof: 28,

	Image:      0,
	Matrix:     0,
	PNGImage:   0,
	PointCloud: 0,
	LineCloud:  0,
}

var names = [...]string{
	Uint8:   "Uint8",
	Int8:    "Int8",
	Uint16:  "Uint16",
	Int16:   "Int16",
	Uint32:  "Uint32",
	Int32:   "Int32",
	Uint64:  "Uint64",
	Int64:   "Int64",
	Float32: "Float32",
	Float64: "Float64",

	Vector3:  "Vector3",
	Pose6Dof: "Pose6Dof",

	Image:      "Image",
	Matrix:     "Matrix",
	PNGImage:   "PNGImage",
	PointCloud: "PointCloud",
	LineCloud:  "LineCloud",
}

// IsValid reports whether t is one of the known item type codes.
func (t ItemType) IsValid() bool {
	return int(t) < len(names) && names[t] != ""
}

// Width returns the fixed on-disk byte width of t, or 0 if t is dynamic or
// unknown. Callers that need to distinguish "dynamic" from "unknown" should
// check IsValid first.
func (t ItemType) Width() uint32 {
	if int(t) >= len(widths) {
		return 0
	}

	return widths[t]
}

// IsDynamic reports whether t's payload size is determined at encode/decode
// time by a prefix within the payload rather than by a fixed schema width.
func (t ItemType) IsDynamic() bool {
	return t.IsValid() && t.Width() == 0
}

// String implements fmt.Stringer.
func (t ItemType) String() string {
	if !t.IsValid() {
		return fmt.Sprintf("ItemType(%d)", uint8(t))
	}

	return names[t]
}
