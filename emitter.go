package apkres

import (
	"encoding/xml"
	"fmt"
)

// Encoder receives the emitted XML tokens, like Encoder from encoding/xml package.
type Encoder interface {
	EncodeToken(t xml.Token) error
	Flush() error
}

// EmitFlags writes the declared flags of a as <flag name="..." value="0x..."/> elements,
// in declaration order. With the Remove policy, items whose reference does not resolve
// are left out.
func (s *Session) EmitFlags(a *FlagsAttr, enc Encoder) error {
	if a == nil {
		return ErrNilAttr
	}

	for _, item := range a.items {
		name, ok := s.resolve(item.Ref)
		if !ok {
			if s.policy == Remove {
				s.log.Debugf("null flag reference: 0x%08x", uint32(item.Ref))
				continue
			}
			name = s.unresolvedName(item)
		}

		start := xml.StartElement{
			Name: xml.Name{Local: "flag"},
			Attr: []xml.Attr{
				{Name: xml.Name{Local: "name"}, Value: name},
				{Name: xml.Name{Local: "value"}, Value: fmt.Sprintf("0x%08x", uint32(item.Bits))},
			},
		}
		if err := enc.EncodeToken(start); err != nil {
			return err
		}
		if err := enc.EncodeToken(start.End()); err != nil {
			return err
		}
	}
	return enc.Flush()
}
