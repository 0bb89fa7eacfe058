//go:build !amd64 || purego

package hwtbuild

var hostCPUID CPUIDFunc
