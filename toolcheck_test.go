package hwtbuild

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func stubLookPath(t *testing.T, available ...string) {
	t.Helper()
	orig := execLookPath
	t.Cleanup(func() { execLookPath = orig })

	execLookPath = func(name string) (string, error) {
		for _, a := range available {
			if a == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", errors.New("not found")
	}
}

func TestCheckRequiredTools(t *testing.T) {
	stubLookPath(t, "cc", "gmake")

	testCases := []struct {
		name    string
		reqs    []ToolRequirement
		wantErr string
	}{
		{
			name: "all present",
			reqs: []ToolRequirement{{Name: "cc"}},
		},
		{
			name: "alternative satisfies",
			reqs: []ToolRequirement{{Name: "make", Alternatives: []string{"gmake"}}},
		},
		{
			name:    "one missing",
			reqs:    []ToolRequirement{{Name: "ranlib", Purpose: "Archive indexer"}},
			wantErr: "ranlib (Archive indexer) not found in PATH",
		},
		{
			name: "several missing",
			reqs: []ToolRequirement{
				{Name: "ranlib", Purpose: "Archive indexer"},
				{Name: "clang"},
			},
			wantErr: "missing required tools: ranlib (Archive indexer), clang",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckRequiredTools(tc.reqs)
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrToolMissing)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestMakefileBuilderCheckTools(t *testing.T) {
	stubLookPath(t, "gmake")
	assert.NoError(t, (&MakefileBuilder{Program: "make"}).CheckTools())

	stubLookPath(t)
	assert.ErrorIs(t, (&MakefileBuilder{}).CheckTools(), ErrToolMissing)
}

func TestDefaultTools(t *testing.T) {
	t.Setenv("MAKE", "  remake ")
	t.Setenv("CC", "")
	t.Setenv("RANLIB", "")

	assert.Equal(t, "remake", defaultMakeProgram())
	assert.Equal(t, ccProgram, defaultCompiler())
	assert.Equal(t, ranlibProgram, defaultRanlib())
}
