package common

import "encoding/binary"

// Words16 lays out 16-bit program words as a byte image in the given order.
func Words16(order binary.ByteOrder, words ...uint16) []byte {
	image := make([]byte, 2*len(words))
	for i, w := range words {
		order.PutUint16(image[2*i:], w)
	}
	return image
}

// Words32 lays out 32-bit program words as a byte image in the given order.
func Words32(order binary.ByteOrder, words ...uint32) []byte {
	image := make([]byte, 4*len(words))
	for i, w := range words {
		order.PutUint32(image[4*i:], w)
	}
	return image
}
