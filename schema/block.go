package schema

import (
	"fmt"

	"github.com/horizon1026/binlog/checksum"
	"github.com/horizon1026/binlog/endian"
	"github.com/horizon1026/binlog/errs"
	"github.com/horizon1026/binlog/format"
)

var le = endian.GetLittleEndianEngine()

// WriteBlock serializes Part 2 (the schema block) for pkgs, in the given
// order, and returns the encoded bytes. The leading offset_to_data_part
// field covers the returned slice in its entirety, itself included.
func WriteBlock(pkgs []PackageInfo) []byte {
	bodies := make([][]byte, len(pkgs))
	total := uint32(4) // offset_to_data_part itself
	for i, p := range pkgs {
		bodies[i] = encodePackageEntry(p)
		total += uint32(len(bodies[i]))
	}

	out := make([]byte, 0, total)
	out = le.AppendUint32(out, total)
	for _, b := range bodies {
		out = append(out, b...)
	}

	return out
}

// encodePackageEntry serializes one package entry, per_pkg_offset through
// sum_check, self-checksummed per §4.2.
func encodePackageEntry(p PackageInfo) []byte {
	body := make([]byte, 0, 32)
	body = le.AppendUint16(body, p.ID)
	body = append(body, byte(len(p.Name)))
	body = append(body, p.Name...)
	for _, it := range p.Items {
		body = append(body, byte(it.Type))
		body = append(body, byte(len(it.Name)))
		body = append(body, it.Name...)
	}

	perPkgOffset := uint32(4 + len(body) + 1)

	entry := make([]byte, 0, 4+len(body)+1)
	entry = le.AppendUint32(entry, perPkgOffset)
	entry = append(entry, body...)

	sum := checksum.Sum(0, entry)
	entry = append(entry, sum)

	return entry
}

// ParseBlock parses a Part 2 schema block (as produced by WriteBlock) out of
// data, which must begin at the offset_to_data_part field. It returns the
// decoded packages in on-disk order and the total number of bytes consumed
// (equal to offset_to_data_part).
//
// A checksum mismatch on any package entry aborts the entire parse, per
// §4.7: the schema block has no per-entry recovery.
func ParseBlock(data []byte) ([]PackageInfo, uint32, error) {
	if len(data) < 4 {
		return nil, 0, fmt.Errorf("%w: schema block shorter than offset field", errs.ErrShortRead)
	}

	blockLen := le.Uint32(data)
	if uint64(blockLen) > uint64(len(data)) {
		return nil, 0, fmt.Errorf("%w: schema block declares %d bytes, have %d", errs.ErrShortRead, blockLen, len(data))
	}

	var pkgs []PackageInfo
	offset := uint32(4)
	for offset < blockLen {
		p, consumed, err := parsePackageEntry(data[offset:blockLen])
		if err != nil {
			return nil, 0, err
		}

		pkgs = append(pkgs, p)
		offset += consumed
	}

	return pkgs, offset, nil
}

func parsePackageEntry(data []byte) (PackageInfo, uint32, error) {
	if len(data) < 4 {
		return PackageInfo{}, 0, fmt.Errorf("%w: package entry shorter than offset field", errs.ErrShortRead)
	}

	perPkgOffset := le.Uint32(data)
	if uint64(perPkgOffset) > uint64(len(data)) || perPkgOffset < 8 {
		return PackageInfo{}, 0, fmt.Errorf("%w: package entry declares invalid size %d", errs.ErrSchemaInvalid, perPkgOffset)
	}

	entry := data[:perPkgOffset]
	wantSum := entry[len(entry)-1]
	gotSum := checksum.Sum(0, entry[:len(entry)-1])
	if gotSum != wantSum {
		return PackageInfo{}, 0, fmt.Errorf("%w: schema package entry", errs.ErrChecksumMismatch)
	}

	body := entry[4 : len(entry)-1]

	if len(body) < 3 {
		return PackageInfo{}, 0, fmt.Errorf("%w: package entry body too short", errs.ErrShortRead)
	}
	id := le.Uint16(body)
	nameLen := int(body[2])
	body = body[3:]
	if len(body) < nameLen {
		return PackageInfo{}, 0, fmt.Errorf("%w: package %d name truncated", errs.ErrShortRead, id)
	}
	name := string(body[:nameLen])
	body = body[nameLen:]

	var items []PackageItemInfo
	for len(body) > 0 {
		if len(body) < 2 {
			return PackageInfo{}, 0, fmt.Errorf("%w: package %d item header truncated", errs.ErrShortRead, id)
		}
		itemType := format.ItemType(body[0])
		itemNameLen := int(body[1])
		body = body[2:]
		if len(body) < itemNameLen {
			return PackageInfo{}, 0, fmt.Errorf("%w: package %d item name truncated", errs.ErrShortRead, id)
		}
		itemName := string(body[:itemNameLen])
		body = body[itemNameLen:]

		items = append(items, PackageItemInfo{Type: itemType, Name: itemName})
	}

	info, err := NewPackageInfo(id, name, items)
	if err != nil {
		return PackageInfo{}, 0, err
	}

	return info, perPkgOffset, nil
}
