package apkres

// AttrType is the dataType byte of a Res_value.
type AttrType uint8

const (
	AttrTypeNull             AttrType = 0x00
	AttrTypeReference        AttrType = 0x01
	AttrTypeAttribute        AttrType = 0x02
	AttrTypeString           AttrType = 0x03
	AttrTypeFloat            AttrType = 0x04
	AttrTypeDimension        AttrType = 0x05
	AttrTypeFraction         AttrType = 0x06
	AttrTypeDynamicReference AttrType = 0x07
	AttrTypeDynamicAttribute AttrType = 0x08
	AttrTypeIntDec           AttrType = 0x10
	AttrTypeIntHex           AttrType = 0x11
	AttrTypeIntBool          AttrType = 0x12

	AttrTypeIntColorArgb8 AttrType = 0x1c
	AttrTypeIntColorRgb8  AttrType = 0x1d
	AttrTypeIntColorArgb4 AttrType = 0x1e
	AttrTypeIntColorRgb4  AttrType = 0x1f
)

// Internal keys of an attribute map (bag).
const (
	attrKeyType = 0x01000000
	attrKeyMin  = 0x01000001
	attrKeyMax  = 0x01000002
	attrKeyL10n = 0x01000003

	attrKeyInternalMask = 0xFFFF0000
	attrKeyInternal     = 0x01000000
)

// Bits of the ATTR_TYPE value.
const (
	attrFormatAny   = 0x0000FFFF
	attrFormatEnum  = 1 << 16
	attrFormatFlags = 1 << 17
)

// ResValue mirrors Res_value from the compiled resource table.
type ResValue struct {
	Size uint16
	Res0 uint8
	Type AttrType
	Data uint32
}

// resValueSize is the binary size of ResValue.
const resValueSize = 2 + 1 + 1 + 4
