// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package gnmi

import "fmt"

// Encoding constants for gNMI payloads
const (
	// EncodingJSON uses standard JSON encoding
	EncodingJSON = "json"

	// EncodingJSONIETF uses JSON encoding with IETF conventions (default)
	EncodingJSONIETF = "json_ietf"
)

// ValidEncodings contains the encodings able to carry records
var ValidEncodings = []string{
	EncodingJSON,
	EncodingJSONIETF,
}

// ValidateEncoding checks if the encoding is valid
//
// Example:
//
//	if err := gnmi.ValidateEncoding("json_ietf"); err != nil {
//	    log.Fatal(err)
//	}
func ValidateEncoding(enc string) error {
	for _, valid := range ValidEncodings {
		if enc == valid {
			return nil
		}
	}
	return fmt.Errorf("invalid encoding: %s (valid values: json, json_ietf)", enc)
}
