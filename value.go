package apkres

import (
	"fmt"
	"math"
	"strconv"
)

// Value is a resource value after classification. It is one of Reference, Int or Scalar.
type Value interface {
	isValue()
}

// Reference points to another resource entry by its id.
type Reference uint32

// Int is a literal integer value (INT_DEC or INT_HEX).
type Int int32

// Scalar is any other value, kept with its raw type and data.
type Scalar struct {
	Type AttrType
	Data uint32
}

func (r Reference) String() string {
	return fmt.Sprintf("0x%08x", uint32(r))
}

func (Reference) isValue() {}
func (Int) isValue()       {}
func (Scalar) isValue()    {}

// Classify converts the raw Res_value into its Value kind.
func Classify(v ResValue) Value {
	switch v.Type {
	case AttrTypeReference, AttrTypeDynamicReference:
		return Reference(v.Data)
	case AttrTypeIntDec, AttrTypeIntHex:
		return Int(int32(v.Data))
	default:
		return Scalar{Type: v.Type, Data: v.Data}
	}
}

var (
	dimensionUnits = [...]string{"px", "dp", "sp", "pt", "in", "mm"}
	fractionUnits  = [...]string{"%", "%p"}
	radixMults     = [...]float64{
		1.0 / (1 << 8),
		1.0 / (1 << 7) / (1 << 8),
		1.0 / (1 << 15) / (1 << 8),
		1.0 / (1 << 23) / (1 << 8),
	}
)

func complexToFloat(data uint32) float64 {
	return float64(int32(data&0xFFFFFF00)) * radixMults[(data>>4)&0x3]
}

// formatScalar renders values which no attribute-specific codec claims.
func formatScalar(s Scalar) (string, error) {
	switch s.Type {
	case AttrTypeNull:
		if s.Data == 1 {
			return "@empty", nil
		}
		return "@null", nil
	case AttrTypeIntBool:
		return strconv.FormatBool(s.Data != 0), nil
	case AttrTypeIntHex:
		return fmt.Sprintf("0x%x", s.Data), nil
	case AttrTypeFloat:
		return strconv.FormatFloat(float64(math.Float32frombits(s.Data)), 'g', -1, 32), nil
	case AttrTypeDimension:
		unit := s.Data & 0xF
		if int(unit) >= len(dimensionUnits) {
			return "", fmt.Errorf("invalid dimension unit %d in 0x%08x", unit, s.Data)
		}
		return strconv.FormatFloat(complexToFloat(s.Data), 'f', -1, 32) + dimensionUnits[unit], nil
	case AttrTypeFraction:
		unit := s.Data & 0xF
		if int(unit) >= len(fractionUnits) {
			return "", fmt.Errorf("invalid fraction unit %d in 0x%08x", unit, s.Data)
		}
		return strconv.FormatFloat(complexToFloat(s.Data)*100, 'f', -1, 32) + fractionUnits[unit], nil
	case AttrTypeIntColorArgb8, AttrTypeIntColorArgb4:
		return fmt.Sprintf("#%08x", s.Data), nil
	case AttrTypeIntColorRgb8, AttrTypeIntColorRgb4:
		return fmt.Sprintf("#%06x", s.Data&0xFFFFFF), nil
	case AttrTypeString:
		return "", fmt.Errorf("string value %d: %w", s.Data, ErrNeedsStringPool)
	default:
		return strconv.FormatInt(int64(int32(s.Data)), 10), nil
	}
}
