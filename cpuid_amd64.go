//go:build amd64 && !purego

package hwtbuild

// cpuid is implemented in cpuid_amd64.s.
func cpuid(eaxArg, ecxArg uint32) (eax, ebx, ecx, edx uint32)

var hostCPUID CPUIDFunc = cpuid
