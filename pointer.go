package ptrreg

import (
	"strconv"
	"strings"

	"github.com/quiverbridge/ptrreg/errors"
)

// Tag names a pointer's logical type. Tags compare by value; the empty
// string is the distinguished "no tag" value meaning untyped.
type Tag string

// NoTag is the untyped tag. As an expected tag it matches anything.
const NoTag Tag = ""

// Is reports whether the tag satisfies an exact-match check against
// expected. NoTag on the expected side is a wildcard; an untagged value
// does not satisfy a tagged expectation.
func (t Tag) Is(expected Tag) bool {
	return t == expected || expected == NoTag
}

// Pointer is the wrapped form of a raw address and its tag. It is a plain
// value type: it can be created, compared, formatted and parsed without any
// registry involvement, and holding one implies nothing about whether the
// address is currently registered.
type Pointer struct {
	Addr uintptr
	Tag  Tag
}

// Wrap builds the wrapped value for an address under a tag.
func Wrap(addr uintptr, tag Tag) Pointer {
	return Pointer{Addr: addr, Tag: tag}
}

// IsNull reports whether the address is null, regardless of tag.
func (p Pointer) IsNull() bool {
	return p.Addr == 0
}

// String returns the canonical text form: "NULL" for a null untagged value,
// otherwise "<hex-addr>^<tag>" with a bare lowercase hex address and an
// empty tag rendered as a trailing separator.
func (p Pointer) String() string {
	if p.Addr == 0 && p.Tag == NoTag {
		return "NULL"
	}
	var b strings.Builder
	b.WriteString(strconv.FormatUint(uint64(p.Addr), 16))
	b.WriteByte('^')
	b.WriteString(string(p.Tag))
	return b.String()
}

// Parse is the inverse of String. The address may carry an optional 0x or
// 0X prefix and must fit the platform pointer width. Everything after the
// first separator is the tag, so a tag containing the separator still
// round-trips. A non-NULL body without a separator is an InvalidValue error.
func Parse(s string) (Pointer, error) {
	if s == "NULL" {
		return Pointer{}, nil
	}
	body, tag, found := strings.Cut(s, "^")
	if !found {
		return Pointer{}, errors.BadFormat(s)
	}
	addr, err := ParseAddr(body)
	if err != nil {
		return Pointer{}, errors.BadFormat(s)
	}
	return Pointer{Addr: addr, Tag: Tag(tag)}, nil
}

// ParseAddr parses a bare hex address with an optional 0x or 0X prefix.
// Manifests and consoles accept addresses in this form.
func ParseAddr(s string) (uintptr, error) {
	hex := s
	if len(hex) >= 2 && hex[0] == '0' && (hex[1] == 'x' || hex[1] == 'X') {
		hex = hex[2:]
	}
	addr, err := strconv.ParseUint(hex, 16, strconv.IntSize)
	if err != nil {
		return 0, errors.BadFormat(s)
	}
	return uintptr(addr), nil
}

// Ordering classifies how two wrapped values relate.
type Ordering int

const (
	// Different means the addresses differ.
	Different Ordering = 0
	// Equal means address and tag both match, including both untagged.
	Equal Ordering = 1
	// SameAddrWrongTag means the addresses match but the tags differ.
	SameAddrWrongTag Ordering = -1
)

// String returns a short name for the ordering.
func (o Ordering) String() string {
	switch o {
	case Equal:
		return "equal"
	case SameAddrWrongTag:
		return "same address, different tag"
	default:
		return "different"
	}
}

// Compare relates two wrapped values by address first, then tag.
func Compare(a, b Pointer) Ordering {
	if a.Addr != b.Addr {
		return Different
	}
	if a.Tag == b.Tag {
		return Equal
	}
	return SameAddrWrongTag
}
