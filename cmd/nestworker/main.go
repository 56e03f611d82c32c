// nestworker is the accelerated nesting solver worker. It implements the
// process-boundary contract used by the accelerated backend:
//
//	nestworker <request.json> <response.json>
//
// The request file carries boards, parts and settings; the worker writes
// the placements, board summaries and stats to the response file. Exit
// code 0 is mandatory for the response to be trusted; any input or output
// failure exits non-zero. Parts that cannot be placed are reported on
// stderr and simply omitted from the placements.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/piwi3910/nestcut/internal/backend"
	"github.com/piwi3910/nestcut/internal/engine"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: nestworker <request.json> <response.json>")
		return 1
	}
	inPath, outPath := args[0], args[1]

	raw, err := os.ReadFile(inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "nestworker: cannot read request: %v\n", err)
		return 1
	}

	var wireReq backend.NestingRequest
	if err := json.Unmarshal(raw, &wireReq); err != nil {
		fmt.Fprintf(os.Stderr, "nestworker: malformed request: %v\n", err)
		return 1
	}

	req, err := backend.DecodeRequest(wireReq)
	if err != nil {
		fmt.Fprintf(os.Stderr, "nestworker: invalid request: %v\n", err)
		return 1
	}

	start := time.Now()
	nester := engine.New(req.Settings)
	result, nestErr := nester.Nest(context.Background(), req.Parts, req.Stocks)
	if nestErr != nil {
		// Capacity failures are reported but do not poison the response:
		// the placements that did succeed are still returned.
		fmt.Fprintf(os.Stderr, "nestworker: %v\n", nestErr)
	}

	resp := backend.EncodeResponse(result, time.Since(start))
	payload, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "nestworker: cannot encode response: %v\n", err)
		return 1
	}
	if err := os.WriteFile(outPath, payload, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "nestworker: cannot write response: %v\n", err)
		return 1
	}
	return 0
}
