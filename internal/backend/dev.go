//go:build linux && amd64

package backend

// The kernel packs a device number into a single 64-bit word:
//
//	bits  0-7   low 8 bits of minor
//	bits  8-19  low 12 bits of major
//	bits 20-43  high 24 bits of minor
//	bits 44-63  high 20 bits of major
//
// Values stored in st_dev/st_rdev only round-trip through Major/Minor/Mkdev
// if this exact split is used.

// Major extracts the major device number from a packed dev_t.
func Major(dev uint64) uint32 {
	major := (dev & 0x00000000000fff00) >> 8
	major |= (dev & 0xfffff00000000000) >> 32
	return uint32(major)
}

// Minor extracts the minor device number from a packed dev_t.
func Minor(dev uint64) uint32 {
	minor := dev & 0x00000000000000ff
	minor |= (dev & 0x00000ffffff00000) >> 12
	return uint32(minor)
}

// Mkdev packs a (major, minor) pair into a dev_t, the inverse of
// Major/Minor.
func Mkdev(major uint32, minor uint32) uint64 {
	dev := (uint64(major) & 0x00000fff) << 8
	dev |= (uint64(major) & 0xfffff000) << 32
	dev |= uint64(minor) & 0x000000ff
	dev |= (uint64(minor) & 0xffffff00) << 12
	return dev
}
