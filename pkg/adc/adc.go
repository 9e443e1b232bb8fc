// Package adc provides the sources of raw 12-bit samples for the two probe channels.
package adc

import "github.com/itohio/gosoil/pkg/sample"

// Reader is a synchronous analog input. Read always succeeds and returns a value in
// [0, sample.MaxRaw]; sources that can fail internally report their last good value.
type Reader interface {
	Read(ch sample.Channel) uint16
}

// ReaderFunc adapts a function to Reader.
type ReaderFunc func(ch sample.Channel) uint16

func (f ReaderFunc) Read(ch sample.Channel) uint16 {
	return f(ch)
}

// Ensure implementations satisfy Reader.
var (
	_ Reader = (*Mock)(nil)
	_ Reader = (*Sequence)(nil)
	_ Reader = ReaderFunc(nil)
)

// Saturate limits v to the 12-bit range of the converter.
func Saturate(v uint64) uint16 {
	if v > sample.MaxRaw {
		return sample.MaxRaw
	}
	return uint16(v)
}
