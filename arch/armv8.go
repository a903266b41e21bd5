package arch

// armv8 targets 64-bit ARMv8-A cores with 64KB translation granules. The
// kernel occupies the canonical upper half; VBAR_EL1 requires 2KB aligned
// vectors.
func armv8() *Arch {
	return &Arch{
		Name:         "armv8",
		Triple:       "aarch64-unknown-none",
		Bits:         64,
		Entry:        "start",
		PageSize:     0x10000,
		VirtualBase:  0xFFFF800000000000,
		VectorAlign:  0x800,
		DataAlign:    0x100000,
		OutputFormat: "elf64-littleaarch64",
		OutputArch:   "aarch64",
		CrossPrefix:  "aarch64-none-elf-",
		Unwind: []string{
			".eh_frame", ".eh_frame.*",
			".gcc_except_table", ".gcc_except_table.*",
		},
		Discard: []string{
			".eh_frame_hdr",
			".note*",
			".comment",
		},
	}
}
