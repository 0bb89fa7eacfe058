package hwtbuild

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type cpuidCall struct{ leaf, subleaf uint32 }

// fakeCPUID answers leaf 0 with maxLeaf and leaf 7 with ebx7.
func fakeCPUID(maxLeaf, ebx7 uint32, calls *[]cpuidCall) CPUIDFunc {
	return func(leaf, subleaf uint32) (eax, ebx, ecx, edx uint32) {
		*calls = append(*calls, cpuidCall{leaf, subleaf})
		switch leaf {
		case 0:
			return maxLeaf, 0x756e6547, 0x6c65746e, 0x49656e69
		case ptLeaf:
			return 0, ebx7, 0, 0
		default:
			return 0, 0, 0, 0
		}
	}
}

func TestSupportsProcessorTrace(t *testing.T) {
	testCases := []struct {
		name     string
		maxLeaf  uint32
		ebx      uint32
		expected bool
	}{
		{"bit set", 0x16, 1 << 25, true},
		{"bit set among others", 0x16, 1<<25 | 1<<5 | 1, true},
		{"bit cleared", 0x16, 0, false},
		{"neighbouring bits only", 0x16, 1<<24 | 1<<26, false},
		{"leaf 7 unsupported", 0x5, 1 << 25, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var calls []cpuidCall
			cpu := CPUCapability{Query: fakeCPUID(tc.maxLeaf, tc.ebx, &calls)}
			assert.Equal(t, tc.expected, cpu.SupportsProcessorTrace())
		})
	}
}

func TestSupportsProcessorTraceQueriesLeafSevenSubleafZero(t *testing.T) {
	var calls []cpuidCall
	cpu := CPUCapability{Query: fakeCPUID(0x20, 1<<25, &calls)}

	assert.True(t, cpu.SupportsProcessorTrace())
	assert.Equal(t, []cpuidCall{{0, 0}, {0x7, 0x0}}, calls)
}

func TestSupportsProcessorTraceWithoutCPUID(t *testing.T) {
	assert.False(t, CPUCapability{}.SupportsProcessorTrace())
}

func TestHostCPUDoesNotPanic(t *testing.T) {
	cpu := HostCPU()
	t.Logf("host Intel PT support: %v", cpu.SupportsProcessorTrace())
}
