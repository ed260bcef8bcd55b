// Package apkres converts flags attribute values of compiled Android resource tables
// between their packed and symbolic forms.
package apkres

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Session converts attribute values between their packed and symbolic forms
// for one resource table. It is safe for concurrent use when its Resolver is.
type Session struct {
	resolver Resolver
	policy   UnresolvedPolicy
	log      logrus.FieldLogger
}

func NewSession(resolver Resolver, cfg Config) *Session {
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Session{
		resolver: resolver,
		policy:   cfg.UnresolvedPolicy,
		log:      log,
	}
}

func (s *Session) resolve(ref Reference) (string, bool) {
	if s.resolver == nil {
		return "", false
	}
	return s.resolver.Resolve(ref)
}

// flagName resolves the item name, falling back to the numeric reference.
func (s *Session) flagName(item FlagItem) string {
	if name, ok := s.resolve(item.Ref); ok {
		return name
	}
	return s.unresolvedName(item)
}

func (s *Session) unresolvedName(item FlagItem) string {
	s.log.WithFields(logrus.Fields{
		"ref":   item.Ref.String(),
		"value": fmt.Sprintf("0x%08x", uint32(item.Bits)),
	}).Warn("unresolved flag reference")
	return item.Ref.String()
}

func (s *Session) renderFlags(flags []FlagItem) string {
	var sb strings.Builder
	for i, item := range flags {
		if i != 0 {
			sb.WriteByte('|')
		}
		sb.WriteString(s.flagName(item))
	}
	return sb.String()
}

// FormatValue renders v as it should appear in an attribute of type a.
// References and non-integer values bypass the flags codec.
func (s *Session) FormatValue(a *FlagsAttr, v Value) (string, error) {
	switch v := v.(type) {
	case Reference:
		return s.EncodeReference(v), nil
	case Int:
		return s.DecodeFlags(a, int32(v))
	case Scalar:
		return formatScalar(v)
	default:
		return "", fmt.Errorf("unknown value kind %T", v)
	}
}

// EncodeReference renders a reference as @name.
func (s *Session) EncodeReference(ref Reference) string {
	if ref == 0 {
		return "@null"
	}
	if name, ok := s.resolve(ref); ok {
		return "@" + name
	}
	return "@" + ref.String()
}

// DecodeFlags turns the packed value into a |-joined list of flag names.
// It returns *InvalidFlagsError when no declared flag is part of value.
func (s *Session) DecodeFlags(a *FlagsAttr, value int32) (string, error) {
	if a == nil {
		return "", ErrNilAttr
	}

	flags, err := a.selectFlags(value)
	if err != nil {
		return "", err
	}
	return s.renderFlags(flags), nil
}

// EncodeFlags is the reverse of DecodeFlags. Names are matched against the resolved
// item names and their numeric fallbacks; a plain integer literal is also accepted.
// A name shared by items with different bits fails with *AmbiguousFlagError.
func (s *Session) EncodeFlags(a *FlagsAttr, text string) (int32, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, nil
	}

	if a == nil {
		return 0, ErrNilAttr
	}

	byName := make(map[string]int32, 2*len(a.items))
	ambiguous := map[string]bool{}
	bind := func(name string, bits int32) {
		if prev, ok := byName[name]; ok && prev != bits {
			ambiguous[name] = true
		}
		byName[name] = bits
	}
	for _, item := range a.items {
		bind(item.Ref.String(), item.Bits)
		if name, ok := s.resolve(item.Ref); ok {
			bind(name, item.Bits)
		}
	}

	var value int32
	for _, part := range strings.Split(text, "|") {
		part = strings.TrimSpace(part)
		if ambiguous[part] {
			return 0, &AmbiguousFlagError{Name: part}
		}
		if b, ok := byName[part]; ok {
			value |= b
			continue
		}

		n, err := strconv.ParseInt(part, 0, 64)
		if err != nil || n < -1<<31 || n > 1<<32-1 {
			return 0, &UnknownFlagError{Name: part}
		}
		value |= int32(uint32(n))
	}
	return value, nil
}
