package apkres

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strings"
	"sync"
	"unicode/utf16"
	"unicode/utf8"
)

const (
	chunkStringTable = 0x0001
	chunkHeaderSize  = 2 + 2 + 4

	stringFlagSorted = 0x00000001
	stringFlagUtf8   = 0x00000100

	stringPoolHeaderSize = chunkHeaderSize + 5*4
	maxPoolStrings       = 2 * 1024 * 1024
)

func parseChunkHeader(r io.Reader) (id, headerLen uint16, len uint32, err error) {
	if err = binary.Read(r, binary.LittleEndian, &id); err != nil {
		return
	}

	if err = binary.Read(r, binary.LittleEndian, &headerLen); err != nil {
		return
	}

	if err = binary.Read(r, binary.LittleEndian, &len); err != nil {
		return
	}
	return
}

// KeyPool is the key string pool of a resource table package, holding entry names.
// Strings are decoded on first access; a KeyPool is safe for concurrent use.
type KeyPool struct {
	isUtf8  bool
	offsets []uint32
	data    []byte

	mu    sync.Mutex
	cache map[uint32]string
}

// ParseKeyPool reads a string pool chunk, header included.
func ParseKeyPool(r io.Reader) (*KeyPool, error) {
	id, _, totalLen, err := parseChunkHeader(r)
	if err != nil {
		return nil, fmt.Errorf("error reading chunk header: %w", err)
	}

	if id != chunkStringTable {
		return nil, fmt.Errorf("Invalid chunk id 0x%04x, expected 0x%04x", id, chunkStringTable)
	}

	if totalLen < stringPoolHeaderSize {
		return nil, fmt.Errorf("String pool chunk too small (%d bytes)", totalLen)
	}

	return parseKeyPool(&io.LimitedReader{R: r, N: int64(totalLen - chunkHeaderSize)})
}

func parseKeyPool(r *io.LimitedReader) (*KeyPool, error) {
	var stringCnt, styleCnt, flags, stringOffset, styleOffset uint32

	for _, f := range []struct {
		name string
		dst  *uint32
	}{
		{"stringCnt", &stringCnt},
		{"styleCnt", &styleCnt},
		{"flags", &flags},
		{"stringOffset", &stringOffset},
		{"styleOffset", &styleOffset},
	} {
		if err := binary.Read(r, binary.LittleEndian, f.dst); err != nil {
			return nil, fmt.Errorf("error reading %s: %w", f.name, err)
		}
	}

	p := &KeyPool{
		isUtf8: flags&stringFlagUtf8 != 0,
		cache:  make(map[uint32]string),
	}

	flags &^= stringFlagUtf8 | stringFlagSorted
	if flags != 0 {
		return nil, fmt.Errorf("Unknown string flag: 0x%08x", flags)
	}

	if stringCnt >= maxPoolStrings {
		return nil, fmt.Errorf("Too many strings in this pool (%d).", stringCnt)
	}

	remainder := int64(stringOffset) - stringPoolHeaderSize - 4*int64(stringCnt)
	if stringCnt == 0 && stringOffset == 0 {
		remainder = 0
	} else if remainder < 0 {
		// Strings start inside the offsets array, the trailing offsets are bogus.
		if remainder%4 != 0 || uint32(-remainder/4) >= stringCnt {
			return nil, fmt.Errorf("Wrong string offset (got remainder %d)", remainder)
		}
		stringCnt -= uint32(-remainder / 4)
		remainder = 0
	}

	p.offsets = make([]uint32, stringCnt)
	if err := binary.Read(r, binary.LittleEndian, p.offsets); err != nil {
		return nil, fmt.Errorf("Failed to read string offsets: %w", err)
	}

	// style offsets
	if _, err := io.CopyN(io.Discard, r, remainder); err != nil {
		return nil, fmt.Errorf("error reading styleArray: %w", err)
	}

	p.data = make([]byte, r.N)
	if _, err := io.ReadFull(r, p.data); err != nil {
		return nil, fmt.Errorf("Failed to read string pool data: %w", err)
	}
	return p, nil
}

// Len returns the number of strings in the pool.
func (p *KeyPool) Len() int {
	return len(p.offsets)
}

// Get returns the string at idx.
func (p *KeyPool) Get(idx uint32) (string, error) {
	if idx == math.MaxUint32 {
		return "", nil
	} else if idx >= uint32(len(p.offsets)) {
		return "", fmt.Errorf("String with idx %d not found!", idx)
	}

	p.mu.Lock()
	str, prs := p.cache[idx]
	p.mu.Unlock()
	if prs {
		return str, nil
	}

	offset := p.offsets[idx]
	if offset >= uint32(len(p.data)) {
		return "", fmt.Errorf("String offset for idx %d is out of bounds (%d >= %d).", idx, offset, len(p.data))
	}

	r := bytes.NewReader(p.data[offset:])

	var err error
	if p.isUtf8 {
		str, err = parseString8(r)
	} else {
		str, err = parseString16(r)
	}
	if err != nil {
		return "", err
	}

	if !utf8.ValidString(str) || strings.ContainsRune(str, 0) {
		str = strings.Map(func(r rune) rune {
			switch r {
			case 0, utf8.RuneError:
				return '\uFFFE'
			default:
				return r
			}
		}, str)
	}

	p.mu.Lock()
	p.cache[idx] = str
	p.mu.Unlock()
	return str, nil
}

func parseString16(r *bytes.Reader) (string, error) {
	var strCharacters uint32
	var strCharactersLow, strCharactersHigh uint16

	if err := binary.Read(r, binary.LittleEndian, &strCharactersHigh); err != nil {
		return "", fmt.Errorf("error reading string char count: %w", err)
	}

	if (strCharactersHigh & 0x8000) != 0 {
		if err := binary.Read(r, binary.LittleEndian, &strCharactersLow); err != nil {
			return "", fmt.Errorf("error reading string char count: %w", err)
		}

		strCharacters = (uint32(strCharactersHigh&0x7FFF) << 16) | uint32(strCharactersLow)
	} else {
		strCharacters = uint32(strCharactersHigh)
	}

	if int64(strCharacters) > int64(r.Len()/2) {
		return "", fmt.Errorf("string length %d exceeds pool data", strCharacters)
	}

	buf := make([]uint16, int64(strCharacters))
	if err := binary.Read(r, binary.LittleEndian, &buf); err != nil {
		return "", fmt.Errorf("error reading string : %w", err)
	}

	decoded := utf16.Decode(buf)
	for len(decoded) != 0 && decoded[len(decoded)-1] == 0 {
		decoded = decoded[:len(decoded)-1]
	}
	return string(decoded), nil
}

func parseString8Len(r io.Reader) (int64, error) {
	var strCharactersLow, strCharactersHigh uint8

	if err := binary.Read(r, binary.LittleEndian, &strCharactersHigh); err != nil {
		return 0, fmt.Errorf("error reading string char count: %w", err)
	}

	if (strCharactersHigh & 0x80) == 0 {
		return int64(strCharactersHigh), nil
	}

	if err := binary.Read(r, binary.LittleEndian, &strCharactersLow); err != nil {
		return 0, fmt.Errorf("error reading string char count: %w", err)
	}
	return (int64(strCharactersHigh&0x7F) << 8) | int64(strCharactersLow), nil
}

func parseString8(r *bytes.Reader) (string, error) {
	// Length of the string in UTF16
	if _, err := parseString8Len(r); err != nil {
		return "", err
	}

	len8, err := parseString8Len(r)
	if err != nil {
		return "", err
	}

	if len8 > int64(r.Len()) {
		return "", fmt.Errorf("string length %d exceeds pool data", len8)
	}

	buf := make([]uint8, len8)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("error reading string : %w", err)
	}

	for len(buf) != 0 && buf[len(buf)-1] == 0 {
		buf = buf[:len(buf)-1]
	}
	return string(buf), nil
}

// PoolResolver resolves references to entry names through a key string pool.
// Keys maps each resource id to the key index of its entry.
type PoolResolver struct {
	Pool *KeyPool
	Keys map[Reference]uint32
}

func (r *PoolResolver) Resolve(ref Reference) (string, bool) {
	idx, ok := r.Keys[ref]
	if !ok {
		return "", false
	}

	name, err := r.Pool.Get(idx)
	if err != nil || name == "" {
		return "", false
	}
	return name, true
}
