package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/nestcut/internal/backend"
)

func writeRequest(t *testing.T, dir string, req backend.NestingRequest) (string, string) {
	t.Helper()
	inPath := filepath.Join(dir, "request.json")
	outPath := filepath.Join(dir, "response.json")
	payload, err := json.Marshal(req)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(inPath, payload, 0o644); err != nil {
		t.Fatal(err)
	}
	return inPath, outPath
}

func readResponse(t *testing.T, path string) backend.NestingResponse {
	t.Helper()
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("response file not written: %v", err)
	}
	var resp backend.NestingResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		t.Fatalf("malformed response: %v", err)
	}
	return resp
}

func TestRun_PlacesParts(t *testing.T) {
	dir := t.TempDir()
	inPath, outPath := writeRequest(t, dir, backend.NestingRequest{
		Boards: []backend.WireBoardSpec{{Material: "Plywood", Width: 2440, Height: 1220}},
		Parts: []backend.WirePart{
			{ID: "p1", Material: "Plywood", Width: 600, Height: 400, GrainDirection: "any"},
			{ID: "p2", Material: "Plywood", Width: 300, Height: 200, GrainDirection: "any"},
		},
		Settings: backend.WireSettings{Kerf: 3, AllowRotation: true},
	})

	if code := run([]string{inPath, outPath}); code != 0 {
		t.Fatalf("run exited %d, want 0", code)
	}

	resp := readResponse(t, outPath)
	if len(resp.Placements) != 2 {
		t.Fatalf("got %d placements, want 2", len(resp.Placements))
	}
	if len(resp.Boards) != 1 {
		t.Fatalf("got %d boards, want 1", len(resp.Boards))
	}
	if resp.Boards[0].PartsCount != 2 {
		t.Errorf("parts_count = %d, want 2", resp.Boards[0].PartsCount)
	}
	if resp.Stats.BoardsUsed != 1 {
		t.Errorf("boards_used = %d, want 1", resp.Stats.BoardsUsed)
	}
	for _, row := range resp.Placements {
		if row.BoardID != resp.Boards[0].ID {
			t.Errorf("placement %q on board %d, want %d", row.PartID, row.BoardID, resp.Boards[0].ID)
		}
	}
}

func TestRun_OversizedPartStillExitsZero(t *testing.T) {
	dir := t.TempDir()
	inPath, outPath := writeRequest(t, dir, backend.NestingRequest{
		Boards: []backend.WireBoardSpec{{Material: "Plywood", Width: 1000, Height: 1000}},
		Parts: []backend.WirePart{
			{ID: "huge", Material: "Plywood", Width: 3000, Height: 3000, GrainDirection: "any"},
			{ID: "ok", Material: "Plywood", Width: 300, Height: 200, GrainDirection: "any"},
		},
		Settings: backend.WireSettings{Kerf: 3, AllowRotation: true},
	})

	// Capacity failures go to stderr; the partial result is still written
	// with exit code 0.
	if code := run([]string{inPath, outPath}); code != 0 {
		t.Fatalf("run exited %d, want 0", code)
	}

	resp := readResponse(t, outPath)
	if len(resp.Placements) != 1 {
		t.Fatalf("got %d placements, want 1", len(resp.Placements))
	}
	if resp.Placements[0].PartID != "ok" {
		t.Errorf("placed part = %q, want %q", resp.Placements[0].PartID, "ok")
	}
}

func TestRun_BadArgs(t *testing.T) {
	if code := run(nil); code == 0 {
		t.Error("missing args should exit non-zero")
	}
}

func TestRun_MissingRequestFile(t *testing.T) {
	dir := t.TempDir()
	code := run([]string{filepath.Join(dir, "absent.json"), filepath.Join(dir, "out.json")})
	if code == 0 {
		t.Error("missing request file should exit non-zero")
	}
}

func TestRun_MalformedRequest(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "request.json")
	if err := os.WriteFile(inPath, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if code := run([]string{inPath, filepath.Join(dir, "out.json")}); code == 0 {
		t.Error("malformed request should exit non-zero")
	}
}

func TestRun_InvalidStock(t *testing.T) {
	dir := t.TempDir()
	inPath, outPath := writeRequest(t, dir, backend.NestingRequest{
		Boards: []backend.WireBoardSpec{{Material: "Plywood", Width: 0, Height: 1220}},
	})
	if code := run([]string{inPath, outPath}); code == 0 {
		t.Error("invalid stock size should exit non-zero")
	}
}
