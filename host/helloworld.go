package host

// HelloWorld returns the reference "Hello World!" ROM image: the
// NUL-terminated string followed by the loop that copies it byte by
// byte to the terminal mailbox and then sends the emit and halt
// commands. Grounded on the reference host's hello_world byte array and
// load_hello_world, which patches the reset vector to point at the code
// immediately following the string.
func HelloWorld() []uint8 {
	prog := []uint8{
		'H', 'e', 'l', 'l', 'o', ' ', 'W', 'o', 'r', 'l', 'd', '!', 0x00, // 13 byte string, offset 0x00-0x0C
		0xA2, 0xFF, //             LDX #$FF
		0x9A, //                   TXS
		0xE8, //             PRINT:INX
		0xBD, 0x00, 0x80, //       LDA $8000,X
		0x9D, 0x00, 0x40, //       STA $4000,X
		0xD0, 0xF7, //             BNE PRINT
		0xA9, 0xAA, //             LDA #$AA
		0x8D, 0xFF, 0x40, //       STA $40FF
		0xA9, 0xBB, //             LDA #$BB
		0x8D, 0xFF, 0x40, //       STA $40FF
	}

	rom := make([]uint8, romSize)
	copy(rom, prog)

	// Patch the reset vector ($FFFC/$FFFD, at ROM offset $7FFC) to point
	// at the code starting just after the string, $800D.
	codeStart := uint16(romBase + len(prog[:13]))
	rom[0xFFFC-romBase] = uint8(codeStart)
	rom[0xFFFC-romBase+1] = uint8(codeStart >> 8)

	return rom
}
