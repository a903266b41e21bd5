package arch

// armv7 targets 32-bit ARMv7-A cores. The kernel lives in the upper 2GB,
// giving user space the identity-friendly lower half. Exception vectors sit
// at physical zero and VBAR wants 32 byte alignment.
func armv7() *Arch {
	return &Arch{
		Name:         "armv7",
		Triple:       "armv7a-none-eabi",
		Bits:         32,
		Entry:        "start",
		PageSize:     0x1000,
		VirtualBase:  0x80000000,
		VectorAlign:  0x20,
		DataAlign:    0x100000,
		OutputFormat: "elf32-littlearm",
		OutputArch:   "arm",
		CrossPrefix:  "arm-none-eabi-",
		Unwind: []string{
			".ARM.exidx", ".ARM.exidx.*",
			".ARM.extab", ".ARM.extab.*",
		},
		Discard: []string{
			// Unwind entries for init code would dangle once the
			// identity mapping is torn down.
			".ARM.exidx.init*",
			".ARM.extab.init*",
			".note*",
			".comment",
		},
	}
}
