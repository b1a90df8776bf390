package record

import "hash/crc32"

// CalculateCRC computes the CRC32 (IEEE) of the description followed by the sequence.
func CalculateCRC(description, sequence []byte) uint32 {
	checksum := crc32.ChecksumIEEE(description)
	return crc32.Update(checksum, crc32.IEEETable, sequence)
}

// ValidateCRC returns true if the provided checksum matches the computed CRC32 of the record fields
func ValidateCRC(description, sequence []byte, checksum uint32) bool {
	return CalculateCRC(description, sequence) == checksum
}
