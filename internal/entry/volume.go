package entry

import "math"

// NormVolume is the raw channel value for 100%.
const NormVolume uint32 = 0x10000

// Volume holds raw per-channel volumes.
type Volume []uint32

// Clone copies the channel slice.
func (v Volume) Clone() Volume {
	if v == nil {
		return nil
	}
	return append(Volume(nil), v...)
}

// Avg returns the mean raw volume across channels.
func (v Volume) Avg() uint32 {
	if len(v) == 0 {
		return 0
	}
	var sum uint64
	for _, c := range v {
		sum += uint64(c)
	}
	return uint32(sum / uint64(len(v)))
}

// Percent returns the mean volume as a percentage of NormVolume.
func (v Volume) Percent() int {
	return int(math.Round(float64(v.Avg()) * 100 / float64(NormVolume)))
}

// Adjust shifts every channel by deltaPercent. Raising stops at maxPercent,
// but a channel already above it is never pulled down by a raise. Lowering
// stops at zero.
func (v Volume) Adjust(deltaPercent, maxPercent int) Volume {
	out := make(Volume, len(v))
	step := int64(NormVolume) * int64(deltaPercent) / 100
	limit := int64(NormVolume) * int64(maxPercent) / 100
	for i, c := range v {
		cur := int64(c)
		next := cur + step
		if next < 0 {
			next = 0
		}
		if step > 0 && next > limit {
			next = max(limit, cur)
		}
		out[i] = uint32(next)
	}
	return out
}
