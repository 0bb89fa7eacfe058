package hwtbuild

// CPUIDFunc executes CPUID for a leaf and subleaf and returns the four
// result registers.
type CPUIDFunc func(leaf, subleaf uint32) (eax, ebx, ecx, edx uint32)

// Intel Processor Trace is reported in CPUID.(EAX=07H,ECX=0):EBX[bit 25].
const (
	ptLeaf    = 0x7
	ptSubleaf = 0x0
	ptBit     = 25
)

// CPUCapability answers questions about the processor running the build.
//
// Query is nil on hosts without CPUID, in which case every capability is
// reported absent.
type CPUCapability struct {
	Query CPUIDFunc
}

// HostCPU returns a CPUCapability backed by the real CPUID instruction.
func HostCPU() CPUCapability {
	return CPUCapability{Query: hostCPUID}
}

// SupportsProcessorTrace reports whether the CPU implements Intel PT.
//
// CPUID itself is assumed present once the platform gate has passed. Leaf 7
// is not: older parts return the highest supported leaf's data instead, so
// the maximum basic leaf from leaf 0 is checked first.
func (c CPUCapability) SupportsProcessorTrace() bool {
	if c.Query == nil {
		return false
	}
	if maxLeaf, _, _, _ := c.Query(0, 0); maxLeaf < ptLeaf {
		return false
	}
	_, ebx, _, _ := c.Query(ptLeaf, ptSubleaf)
	return ebx&(1<<ptBit) != 0
}
