package chunk

import "errors"

// ErrInvalidBufferLength is returned by FromBuffer when the supplied byte
// slice is not exactly SizeX*SizeY*SizeZ*4 bytes long.
var ErrInvalidBufferLength = errors.New("chunk: invalid buffer length")
