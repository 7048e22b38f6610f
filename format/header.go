package format

// Header is the fixed ASCII literal written at the start of every log file
// produced by this module's encoder (Part 1 of the wire format). It has no length
// prefix and no checksum.
const Header = "BINARY_DATA_LOG"

// LegacyHeader is an older header literal that a decoder must also accept
// for files produced by prior tooling. Encoders never write it.
const LegacyHeader = "SLAM_DATA_LOG"
