package pcapng

import "encoding/binary"

// supportedSHBVersion reports whether (major, minor) is a version this
// engine understands. 1.2 is treated identically to 1.0: no field in
// the 1.2 revision changes anything this engine decodes.
func supportedSHBVersion(major, minor uint16) bool {
	if major != 1 {
		return false
	}
	return minor == 0 || minor == 2
}

// decodeSHBBody parses the Section Header Block body that follows the
// byte-order magic already consumed by the caller: major/minor version,
// the signed 64-bit section length (-1 = unknown), and SHB options
// (comment, hardware, os, user_application).
func decodeSHBBody(totalLength uint32, order binary.ByteOrder, swapped bool, rest []byte, offset int64, logger Logger) (*Section, error) {
	if len(rest) < 12 {
		return nil, newBlockErr(KindShortRead, offset, BlockTypeSectionHeader, "section header block body truncated")
	}
	major := order.Uint16(rest[0:2])
	minor := order.Uint16(rest[2:4])
	if !supportedSHBVersion(major, minor) {
		return nil, newBlockErr(KindUnsupportedFormat, offset, BlockTypeSectionHeader, "unsupported section header block version")
	}
	sectionLen := int64(order.Uint64(rest[4:12]))

	opts, err := decodeOptions(rest[12:], order, offset)
	if err != nil {
		return nil, err
	}
	if err := validateOptionFamily(FamilySHB, opts, order, offset, logger); err != nil {
		return nil, err
	}

	return &Section{
		Swapped:      swapped,
		MajorVersion: major,
		MinorVersion: minor,
		Length:       sectionLen,
		Offset:       offset,
		Options:      opts,
		order:        order,
	}, nil
}

// validateOptionFamily runs every registered option handler for family
// over opts, purely to surface malformed registered-option values as
// errors; the raw Option values themselves are always retained
// unchanged regardless of whether a handler is registered.
func validateOptionFamily(family BlockFamily, opts []Option, order binary.ByteOrder, offset int64, logger Logger) error {
	for _, o := range opts {
		h, ok := lookupOptionHandler(family, o.Code)
		if !ok {
			continue
		}
		if _, err := h.parse(order, o.Value); err != nil {
			return wrapErr(KindBadFile, offset, "registered option handler rejected value", err)
		}
	}
	return nil
}
