package ufokit

import "fmt"

// Base85 codec used by the textual binary-data envelope. The alphabet is
// the RFC 1924 one, compatible with Python's base64.b85encode, which is
// what the reference UFO tooling emits.

const base85Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"abcdefghijklmnopqrstuvwxyz!#$%&()*+-;<=>?@^_`{|}~"

var base85Decoder = func() [256]int8 {
	var table [256]int8
	for i := range table {
		table[i] = -1
	}
	for i := 0; i < len(base85Alphabet); i++ {
		table[base85Alphabet[i]] = int8(i)
	}
	return table
}()

// EncodeBase85 encodes data as base85 text. Every 4-byte group becomes 5
// characters; a trailing group of n bytes becomes n+1 characters.
func EncodeBase85(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	out := make([]byte, 0, (len(data)+3)/4*5)
	var block [5]byte
	for i := 0; i < len(data); i += 4 {
		n := len(data) - i
		if n > 4 {
			n = 4
		}
		var acc uint32
		for j := 0; j < 4; j++ {
			acc <<= 8
			if j < n {
				acc |= uint32(data[i+j])
			}
		}
		for j := 4; j >= 0; j-- {
			block[j] = base85Alphabet[acc%85]
			acc /= 85
		}
		out = append(out, block[:n+1]...)
	}
	return string(out)
}

// DecodeBase85 decodes text produced by EncodeBase85, reproducing the
// original bytes exactly.
func DecodeBase85(s string) ([]byte, error) {
	if len(s) == 0 {
		return []byte{}, nil
	}
	if len(s)%5 == 1 {
		return nil, fmt.Errorf("base85: invalid length %d", len(s))
	}
	out := make([]byte, 0, len(s)/5*4+4)
	for i := 0; i < len(s); i += 5 {
		n := len(s) - i
		if n > 5 {
			n = 5
		}
		var acc uint64
		for j := 0; j < 5; j++ {
			c := byte('~') // implicit high padding for a trailing group
			if j < n {
				c = s[i+j]
			}
			d := base85Decoder[c]
			if d < 0 {
				return nil, fmt.Errorf("base85: invalid character %q at %d", c, i+j)
			}
			acc = acc*85 + uint64(d)
		}
		if acc > 0xFFFFFFFF {
			return nil, fmt.Errorf("base85: group overflow at %d", i)
		}
		out = append(out, byte(acc>>24), byte(acc>>16), byte(acc>>8), byte(acc))
		if n < 5 {
			out = out[:len(out)-(5-n)]
		}
	}
	return out, nil
}
