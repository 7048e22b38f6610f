package codec

import (
	"fmt"
	"math"

	"github.com/horizon1026/binlog/errs"
	"github.com/horizon1026/binlog/format"
)

// encodeImage builds the {channels, rows, cols, pixels} payload described in
// §4.4. len(pixels) must equal channels*rows*cols.
func encodeImage(channels uint8, rows, cols uint16, pixels []byte) ([]byte, error) {
	want := int(channels) * int(rows) * int(cols)
	if len(pixels) != want {
		return nil, fmt.Errorf("%w: image expects %d pixel bytes, got %d", errs.ErrPayloadMismatch, want, len(pixels))
	}

	out := make([]byte, 0, 5+len(pixels))
	out = append(out, channels)
	out = le.AppendUint16(out, rows)
	out = le.AppendUint16(out, cols)
	out = append(out, pixels...)

	return out, nil
}

// encodeMatrix builds the {rows, cols, elements} row-major payload.
func encodeMatrix(rows, cols uint16, elements []float32) ([]byte, error) {
	want := int(rows) * int(cols)
	if len(elements) != want {
		return nil, fmt.Errorf("%w: matrix expects %d elements, got %d", errs.ErrPayloadMismatch, want, len(elements))
	}

	out := make([]byte, 0, 4+4*len(elements))
	out = le.AppendUint16(out, rows)
	out = le.AppendUint16(out, cols)
	for _, e := range elements {
		out = le.AppendUint32(out, math.Float32bits(e))
	}

	return out, nil
}

// encodePNGBlob builds the {num_bytes, bytes} opaque-blob payload.
func encodePNGBlob(data []byte) []byte {
	out := make([]byte, 0, 4+len(data))
	out = le.AppendUint32(out, uint32(len(data)))
	out = append(out, data...)

	return out
}

// Point3 is one (x, y, z) sample of a point-cloud payload.
type Point3 struct {
	X, Y, Z float32
}

// encodePointCloud builds the {num_points, points} payload.
func encodePointCloud(points []Point3) []byte {
	out := make([]byte, 0, 4+12*len(points))
	out = le.AppendUint32(out, uint32(len(points)))
	for _, p := range points {
		out = le.AppendUint32(out, math.Float32bits(p.X))
		out = le.AppendUint32(out, math.Float32bits(p.Y))
		out = le.AppendUint32(out, math.Float32bits(p.Z))
	}

	return out
}

// Line3 is one endpoint pair of a line-cloud payload.
type Line3 struct {
	Start, End Point3
}

// encodeLineCloud builds the {num_lines, lines} payload.
func encodeLineCloud(lines []Line3) []byte {
	out := make([]byte, 0, 4+24*len(lines))
	out = le.AppendUint32(out, uint32(len(lines)))
	for _, l := range lines {
		out = le.AppendUint32(out, math.Float32bits(l.Start.X))
		out = le.AppendUint32(out, math.Float32bits(l.Start.Y))
		out = le.AppendUint32(out, math.Float32bits(l.Start.Z))
		out = le.AppendUint32(out, math.Float32bits(l.End.X))
		out = le.AppendUint32(out, math.Float32bits(l.End.Y))
		out = le.AppendUint32(out, math.Float32bits(l.End.Z))
	}

	return out
}

// dynamicPayloadSpan reads just enough of data, starting at the single
// dynamic item's type, to compute the total payload size (prefix included),
// per §4.4. It never copies; it returns the span's length only.
func dynamicPayloadSpan(itemType format.ItemType, data []byte) (int, error) {
	switch itemType {
	case format.Image:
		if len(data) < 5 {
			return 0, fmt.Errorf("%w: image prefix truncated", errs.ErrShortRead)
		}
		channels := int(data[0])
		rows := int(le.Uint16(data[1:]))
		cols := int(le.Uint16(data[3:]))

		return 5 + channels*rows*cols, nil

	case format.Matrix:
		if len(data) < 4 {
			return 0, fmt.Errorf("%w: matrix prefix truncated", errs.ErrShortRead)
		}
		rows := int(le.Uint16(data))
		cols := int(le.Uint16(data[2:]))

		return 4 + rows*cols*4, nil

	case format.PNGImage:
		if len(data) < 4 {
			return 0, fmt.Errorf("%w: png-image prefix truncated", errs.ErrShortRead)
		}
		numBytes := int(le.Uint32(data))

		return 4 + numBytes, nil

	case format.PointCloud:
		if len(data) < 4 {
			return 0, fmt.Errorf("%w: point-cloud prefix truncated", errs.ErrShortRead)
		}
		numPoints := int(le.Uint32(data))

		return 4 + numPoints*12, nil

	case format.LineCloud:
		if len(data) < 4 {
			return 0, fmt.Errorf("%w: line-cloud prefix truncated", errs.ErrShortRead)
		}
		numLines := int(le.Uint32(data))

		return 4 + numLines*24, nil

	default:
		return 0, fmt.Errorf("%w: item type %s", errs.ErrUnsupportedDynamicType, itemType)
	}
}

// DecodeMatrix splits a decoded matrix payload back into its rows, cols, and
// row-major elements.
func DecodeMatrix(payload []byte) (rows, cols uint16, elements []float32, err error) {
	if len(payload) < 4 {
		return 0, 0, nil, fmt.Errorf("%w: matrix payload truncated", errs.ErrShortRead)
	}
	rows = le.Uint16(payload)
	cols = le.Uint16(payload[2:])
	want := 4 + int(rows)*int(cols)*4
	if len(payload) != want {
		return 0, 0, nil, fmt.Errorf("%w: matrix payload expects %d bytes, got %d", errs.ErrPayloadMismatch, want, len(payload))
	}

	elements = make([]float32, int(rows)*int(cols))
	for i := range elements {
		elements[i] = math.Float32frombits(le.Uint32(payload[4+4*i:]))
	}

	return rows, cols, elements, nil
}

// DecodeImage splits a decoded image payload back into its channels, rows,
// cols, and pixel bytes.
func DecodeImage(payload []byte) (channels uint8, rows, cols uint16, pixels []byte, err error) {
	if len(payload) < 5 {
		return 0, 0, 0, nil, fmt.Errorf("%w: image payload truncated", errs.ErrShortRead)
	}
	channels = payload[0]
	rows = le.Uint16(payload[1:])
	cols = le.Uint16(payload[3:])
	want := 5 + int(channels)*int(rows)*int(cols)
	if len(payload) != want {
		return 0, 0, 0, nil, fmt.Errorf("%w: image payload expects %d bytes, got %d", errs.ErrPayloadMismatch, want, len(payload))
	}

	return channels, rows, cols, payload[5:], nil
}

// DecodePNGBlob strips the length prefix off a decoded png-image payload.
func DecodePNGBlob(payload []byte) ([]byte, error) {
	if len(payload) < 4 {
		return nil, fmt.Errorf("%w: png-image payload truncated", errs.ErrShortRead)
	}
	n := le.Uint32(payload)
	if uint64(n) != uint64(len(payload)-4) {
		return nil, fmt.Errorf("%w: png-image payload expects %d bytes, got %d", errs.ErrPayloadMismatch, n, len(payload)-4)
	}

	return payload[4:], nil
}

// DecodePointCloud splits a decoded point-cloud payload back into points.
func DecodePointCloud(payload []byte) ([]Point3, error) {
	if len(payload) < 4 {
		return nil, fmt.Errorf("%w: point-cloud payload truncated", errs.ErrShortRead)
	}
	n := le.Uint32(payload)
	want := 4 + int(n)*12
	if len(payload) != want {
		return nil, fmt.Errorf("%w: point-cloud payload expects %d bytes, got %d", errs.ErrPayloadMismatch, want, len(payload))
	}

	out := make([]Point3, n)
	for i := range out {
		base := 4 + 12*i
		out[i] = Point3{
			X: math.Float32frombits(le.Uint32(payload[base:])),
			Y: math.Float32frombits(le.Uint32(payload[base+4:])),
			Z: math.Float32frombits(le.Uint32(payload[base+8:])),
		}
	}

	return out, nil
}

// DecodeLineCloud splits a decoded line-cloud payload back into endpoint
// pairs.
func DecodeLineCloud(payload []byte) ([]Line3, error) {
	if len(payload) < 4 {
		return nil, fmt.Errorf("%w: line-cloud payload truncated", errs.ErrShortRead)
	}
	n := le.Uint32(payload)
	want := 4 + int(n)*24
	if len(payload) != want {
		return nil, fmt.Errorf("%w: line-cloud payload expects %d bytes, got %d", errs.ErrPayloadMismatch, want, len(payload))
	}

	out := make([]Line3, n)
	for i := range out {
		base := 4 + 24*i
		out[i] = Line3{
			Start: Point3{
				X: math.Float32frombits(le.Uint32(payload[base:])),
				Y: math.Float32frombits(le.Uint32(payload[base+4:])),
				Z: math.Float32frombits(le.Uint32(payload[base+8:])),
			},
			End: Point3{
				X: math.Float32frombits(le.Uint32(payload[base+12:])),
				Y: math.Float32frombits(le.Uint32(payload[base+16:])),
				Z: math.Float32frombits(le.Uint32(payload[base+20:])),
			},
		}
	}

	return out, nil
}
