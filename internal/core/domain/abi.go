package domain

import (
	"errors"
	"strconv"

	"go.trai.ch/zerr"
)

// moduleVersions maps a runtime major version to its NODE_MODULE_VERSION.
var moduleVersions = map[string]string{
	"14": "83",
	"15": "88",
	"16": "93",
	"17": "102",
	"18": "108",
	"19": "111",
	"20": "115",
	"21": "120",
	"22": "127",
	"23": "131",
	"24": "137",
}

// ResolveABI returns the ABI for nodeVersion, or override when it is non-empty.
// An override must be numeric.
func ResolveABI(nodeVersion, override string) (string, error) {
	if override != "" {
		if _, err := strconv.Atoi(override); err != nil {
			return "", errors.Join(ErrConfig, zerr.With(ErrInvalidABI, "force_abi", override))
		}
		return override, nil
	}

	abi, ok := moduleVersions[MajorVersion(nodeVersion)]
	if !ok {
		return "", errors.Join(ErrConfig, zerr.With(ErrUnknownABI, "node_version", nodeVersion))
	}
	return abi, nil
}
