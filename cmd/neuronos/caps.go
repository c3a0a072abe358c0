package main

import "neuronos/pkg/types"

// defaultGrantedCaps grants only the filesystem capability by default —
// shell and network access must be opted into explicitly.
func defaultGrantedCaps() types.Capability {
	return types.CapFilesystem
}

func parseGrantedCaps(names []string) types.Capability {
	if len(names) == 0 {
		return defaultGrantedCaps()
	}
	var caps types.Capability
	for _, n := range names {
		switch n {
		case "filesystem":
			caps |= types.CapFilesystem
		case "shell":
			caps |= types.CapShell
		case "network":
			caps |= types.CapNetwork
		}
	}
	return caps
}
