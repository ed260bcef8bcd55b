package apkres

import (
	"encoding/binary"
	"fmt"
	"io"
)

const maxAttrMapEntries = 64 * 1024

type attrMapEntry struct {
	Name  uint32
	Value ResValue
}

// ParseFlagsAttr reads the map (bag) of a compiled flags attribute: the parent
// reference, the entry count, and count pairs of key reference and Res_value.
// The reader must be positioned right after the entry header.
//
// Returns ErrNotFlagsAttr when the ATTR_TYPE entry does not have the flags bit.
func ParseFlagsAttr(r io.Reader) (*FlagsAttr, error) {
	var parent, count uint32

	if err := binary.Read(r, binary.LittleEndian, &parent); err != nil {
		return nil, fmt.Errorf("error reading parent: %w", err)
	}

	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("error reading count: %w", err)
	}

	if count >= maxAttrMapEntries {
		return nil, fmt.Errorf("Too many entries in attribute map (%d).", count)
	}

	attr := &FlagsAttr{Parent: Reference(parent)}
	hasType := false

	var entry attrMapEntry
	for i := uint32(0); i < count; i++ {
		if err := binary.Read(r, binary.LittleEndian, &entry); err != nil {
			return nil, fmt.Errorf("error reading map entry %d: %w", i, err)
		}

		if entry.Value.Size > resValueSize {
			if _, err := io.CopyN(io.Discard, r, int64(entry.Value.Size-resValueSize)); err != nil {
				return nil, fmt.Errorf("error skipping map entry %d: %w", i, err)
			}
		}

		if entry.Name&attrKeyInternalMask == attrKeyInternal {
			switch entry.Name {
			case attrKeyType:
				attr.Format = entry.Value.Data
				hasType = true
			case attrKeyMin:
				v := int32(entry.Value.Data)
				attr.Min = &v
			case attrKeyMax:
				v := int32(entry.Value.Data)
				attr.Max = &v
			case attrKeyL10n:
				v := entry.Value.Data != 0
				attr.L10n = &v
			default:
				return nil, fmt.Errorf("Unknown attribute map key 0x%08x", entry.Name)
			}
			continue
		}

		if entry.Value.Type != AttrTypeIntDec && entry.Value.Type != AttrTypeIntHex {
			return nil, fmt.Errorf("flag 0x%08x has non-integer value type 0x%02x", entry.Name, entry.Value.Type)
		}

		attr.items = append(attr.items, FlagItem{
			Ref:  Reference(entry.Name),
			Bits: int32(entry.Value.Data),
		})
	}

	if !hasType || attr.Format&attrFormatFlags == 0 {
		return nil, ErrNotFlagsAttr
	}
	return attr, nil
}

// FormatNames lists the value formats an attribute accepts, as written in the
// format attribute of <attr>.
func FormatNames(format uint32) []string {
	if format&attrFormatAny == attrFormatAny {
		return []string{"any"}
	}

	names := []string{"reference", "string", "integer", "boolean", "color", "float", "dimension", "fraction"}
	var res []string
	for i, n := range names {
		if format&(1<<uint(i)) != 0 {
			res = append(res, n)
		}
	}
	if format&attrFormatEnum != 0 {
		res = append(res, "enum")
	}
	if format&attrFormatFlags != 0 {
		res = append(res, "flags")
	}
	return res
}
