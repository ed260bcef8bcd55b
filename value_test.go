package apkres_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avast/apkres"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	assert.Equal(t, apkres.Reference(0x7f010000), apkres.Classify(apkres.ResValue{Type: apkres.AttrTypeReference, Data: 0x7f010000}))
	assert.Equal(t, apkres.Reference(0x02010000), apkres.Classify(apkres.ResValue{Type: apkres.AttrTypeDynamicReference, Data: 0x02010000}))
	assert.Equal(t, apkres.Int(5), apkres.Classify(apkres.ResValue{Type: apkres.AttrTypeIntDec, Data: 5}))
	assert.Equal(t, apkres.Int(-1), apkres.Classify(apkres.ResValue{Type: apkres.AttrTypeIntHex, Data: 0xffffffff}))
	assert.Equal(t, apkres.Scalar{Type: apkres.AttrTypeIntBool, Data: 1}, apkres.Classify(apkres.ResValue{Type: apkres.AttrTypeIntBool, Data: 1}))
}

func TestFormatValue(t *testing.T) {
	t.Parallel()

	attr, res := newFlags(flagDef{"none", 0}, flagDef{"A", 0x1}, flagDef{"B", 0x2}, flagDef{"C", 0x4})
	s, _ := newTestSession(res, apkres.Keep)

	testCases := []struct {
		name     string
		value    apkres.Value
		expected string
	}{
		{"reference", apkres.Reference(0x7f010001), "@A"},
		{"null reference", apkres.Reference(0), "@null"},
		{"unresolved reference", apkres.Reference(0x7f0200ff), "@0x7f0200ff"},
		{"flags", apkres.Int(5), "A|C"},
		{"zero flags", apkres.Int(0), "none"},
		{"bool", apkres.Scalar{Type: apkres.AttrTypeIntBool, Data: 1}, "true"},
		{"null", apkres.Scalar{Type: apkres.AttrTypeNull}, "@null"},
		{"empty", apkres.Scalar{Type: apkres.AttrTypeNull, Data: 1}, "@empty"},
		{"float", apkres.Scalar{Type: apkres.AttrTypeFloat, Data: math.Float32bits(1.5)}, "1.5"},
		{"dimension", apkres.Scalar{Type: apkres.AttrTypeDimension, Data: 0x1001}, "16dp"},
		{"fractional dimension", apkres.Scalar{Type: apkres.AttrTypeDimension, Data: 0xc010}, "1.5px"},
		{"fraction", apkres.Scalar{Type: apkres.AttrTypeFraction, Data: 0x4010}, "50%"},
		{"argb color", apkres.Scalar{Type: apkres.AttrTypeIntColorArgb8, Data: 0xff00ff00}, "#ff00ff00"},
		{"rgb color", apkres.Scalar{Type: apkres.AttrTypeIntColorRgb8, Data: 0xff112233}, "#112233"},
		{"other", apkres.Scalar{Type: apkres.AttrTypeAttribute, Data: 0xffffffff}, "-1"},
	}

	for _, tc := range testCases {
		got, err := s.FormatValue(attr, tc.value)
		require.NoError(t, err, tc.name)
		assert.Equal(t, tc.expected, got, tc.name)
	}
}

func TestFormatValueErrors(t *testing.T) {
	t.Parallel()

	attr, res := newFlags(flagDef{"A", 0x1})
	s, _ := newTestSession(res, apkres.Keep)

	_, err := s.FormatValue(attr, apkres.Scalar{Type: apkres.AttrTypeString, Data: 3})
	assert.ErrorIs(t, err, apkres.ErrNeedsStringPool)

	_, err = s.FormatValue(attr, apkres.Scalar{Type: apkres.AttrTypeDimension, Data: 0x100f})
	assert.Error(t, err)

	_, err = s.FormatValue(attr, apkres.Int(2))
	var invalid *apkres.InvalidFlagsError
	assert.ErrorAs(t, err, &invalid)
}

func TestNilResolver(t *testing.T) {
	t.Parallel()

	attr := apkres.NewFlagsAttr([]apkres.FlagItem{{Ref: 0x7f010000, Bits: 0x1}})
	s, _ := newTestSession(nil, apkres.Keep)

	decoded, err := s.DecodeFlags(attr, 0x1)
	require.NoError(t, err)
	assert.Equal(t, "0x7f010000", decoded)

	s, _ = newTestSession(apkres.ResolverFunc(func(ref apkres.Reference) (string, bool) {
		return "flag_" + ref.String(), true
	}), apkres.Keep)
	decoded, err = s.DecodeFlags(attr, 0x1)
	require.NoError(t, err)
	assert.Equal(t, "flag_0x7f010000", decoded)
}
