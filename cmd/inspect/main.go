// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command inspect runs the Aleutian code inspection service and its client.
//
// Usage:
//
//	inspect serve --config configs/inspect.yaml
//	inspect serve --port 9000 --http-port 8081 --languages Python,kotlin
//	inspect check main.py Main.kt
//	inspect check --server localhost:8080 main.py
//	inspect checks Python
//	inspect validate --rules-dir ./rules
//
// Example requests against the HTTP gateway:
//
//	curl -X POST http://localhost:8081/v1/inspect \
//	  -H "Content-Type: application/json" \
//	  -d '{"language": "Python", "text": "if b != False:\n    pass\n"}'
//
//	curl http://localhost:8081/v1/languages/Python/checks | jq
package main

import (
	"errors"
	"fmt"
	"os"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		if !errors.Is(err, errProblemsFound) && !errors.Is(err, errInvalidConfig) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
