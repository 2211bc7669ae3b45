package cache

import (
	"fmt"
	"net/url"
	"strings"
)

const imageScheme = "image://"

// DecodeURL normalizes an artwork URL as handed over by the host: one
// trailing slash is dropped, an image:// wrapper is removed and the rest is
// percent-decoded. A string with invalid escapes is returned undecoded.
func DecodeURL(raw string) string {
	s := strings.TrimSuffix(raw, "/")
	if len(s) >= len(imageScheme) && strings.EqualFold(s[:len(imageScheme)], imageScheme) {
		s = s[len(imageScheme):]
	}
	decoded, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return decoded
}

// crcTable is the table for the non-reflected CRC-32 polynomial 0x04C11DB7.
var crcTable = func() [256]uint32 {
	var table [256]uint32
	for i := range table {
		crc := uint32(i) << 24
		for j := 0; j < 8; j++ {
			if crc&0x80000000 != 0 {
				crc = crc<<1 ^ 0x04C11DB7
			} else {
				crc <<= 1
			}
		}
		table[i] = crc
	}
	return table
}()

// ThumbName returns the host's cache name for url: the MSB-first CRC-32 of
// the lowercased string, with initial value 0xFFFFFFFF and no final xor,
// as eight lowercase hex digits.
func ThumbName(url string) string {
	crc := uint32(0xFFFFFFFF)
	for _, b := range []byte(strings.ToLower(url)) {
		crc = crc<<8 ^ crcTable[byte(crc>>24)^b]
	}
	return fmt.Sprintf("%08x", crc)
}
