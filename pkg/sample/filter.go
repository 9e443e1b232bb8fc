package sample

import "math"

// HistorySlots is the depth of the moving-average window per channel.
const HistorySlots = 10

// live is the index of the accumulator slot that follows the history.
const live = HistorySlots

// unreported is the "last drawn" value of a channel that has not been drawn since reset.
// It is outside every valid range, so the first reading always counts as a change.
var unreported = math.Inf(-1)

// Filter keeps a ring of averaged readings per channel and reports their calibrated mean.
//
// Each channel owns HistorySlots finalized readings plus one live accumulator. Push adds
// raw samples to the accumulator; Finalize averages it and rotates the result into the
// history, evicting the oldest reading. Read reports the mean of the history.
//
// All storage is fixed-size. Filter is not safe for concurrent use: it is owned by the
// main loop.
type Filter struct {
	cal   [NumChannels]Calibration
	slots [NumChannels][HistorySlots + 1]uint32
	last  [NumChannels]float64
}

// NewFilter creates a reset filter using the given per-channel calibration.
func NewFilter(cal [NumChannels]Calibration) *Filter {
	f := &Filter{cal: cal}
	f.Reset()
	return f
}

// Calibration returns the calibration used for ch.
func (f *Filter) Calibration(ch Channel) Calibration {
	if !ch.Valid() {
		return Calibration{}
	}
	return f.cal[ch]
}

// Push accumulates raw into the live slot of ch. Values above MaxRaw are saturated.
func (f *Filter) Push(ch Channel, raw uint16) {
	if !ch.Valid() {
		return
	}
	if raw > MaxRaw {
		raw = MaxRaw
	}
	f.slots[ch][live] += uint32(raw)
}

// Finalize divides the live slot of ch by count and rotates the result into history.
// The oldest reading is dropped and the live slot starts again from zero.
func (f *Filter) Finalize(ch Channel, count int) {
	if !ch.Valid() {
		return
	}
	if count < 1 {
		count = 1
	}
	s := &f.slots[ch]
	avg := s[live] / uint32(count)
	copy(s[:HistorySlots-1], s[1:HistorySlots])
	s[HistorySlots-1] = avg
	s[live] = 0
}

// Mean returns the uncalibrated mean of the history of ch.
func (f *Filter) Mean(ch Channel) float64 {
	if !ch.Valid() {
		return 0
	}
	var sum uint32
	for _, v := range f.slots[ch][:HistorySlots] {
		sum += v
	}
	return float64(sum) / HistorySlots
}

// Read returns the calibrated and clamped mean of the history of ch.
func (f *Filter) Read(ch Channel) float64 {
	if !ch.Valid() {
		return 0
	}
	return f.cal[ch].Apply(f.Mean(ch))
}

// Report reads ch and tells whether the value moved past the channel threshold since it
// was last reported. A changed value becomes the new reference.
func (f *Filter) Report(ch Channel) (float64, bool) {
	v := f.Read(ch)
	if !ch.Valid() {
		return v, false
	}
	if math.Abs(v-f.last[ch]) > f.cal[ch].Threshold {
		f.last[ch] = v
		return v, true
	}
	return v, false
}

// LastReported returns the value of ch last returned as changed by Report, and false
// if nothing was reported since the last reset.
func (f *Filter) LastReported(ch Channel) (float64, bool) {
	if !ch.Valid() || math.IsInf(f.last[ch], -1) {
		return 0, false
	}
	return f.last[ch], true
}

// History returns a copy of the finalized readings of ch, oldest first.
func (f *Filter) History(ch Channel) [HistorySlots]uint32 {
	var h [HistorySlots]uint32
	if ch.Valid() {
		copy(h[:], f.slots[ch][:HistorySlots])
	}
	return h
}

// Accumulated returns the current content of the live slot of ch.
func (f *Filter) Accumulated(ch Channel) uint32 {
	if !ch.Valid() {
		return 0
	}
	return f.slots[ch][live]
}

// ForceRedraw forgets what was reported without touching the readings, so the next
// Report of every channel counts as a change.
func (f *Filter) ForceRedraw() {
	for ch := range f.last {
		f.last[ch] = unreported
	}
}

// Reset zeroes every slot and forgets what was reported, so the next Report draws.
func (f *Filter) Reset() {
	for ch := range f.slots {
		f.slots[ch] = [HistorySlots + 1]uint32{}
		f.last[ch] = unreported
	}
}
