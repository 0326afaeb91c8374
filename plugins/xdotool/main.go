// Package main provides an input plugin for X11 desktops.
// It performs scroll, relative cursor move and click actions via xdotool.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strconv"
)

// Request represents the input from the plugin executor.
type Request struct {
	Action string          `json:"action"`
	Config json.RawMessage `json:"config"`
	Params json.RawMessage `json:"params"`
}

// Response represents the output to the plugin executor.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// ScrollParams: positive amounts scroll up.
type ScrollParams struct {
	Amount int `json:"amount"`
}

// MoveParams is a relative cursor offset in pixels.
type MoveParams struct {
	DX int `json:"dx"`
	DY int `json:"dy"`
}

// X11 pointer buttons.
const (
	buttonLeft       = "1"
	buttonScrollUp   = "4"
	buttonScrollDown = "5"
)

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	args, err := buildArgs(req)
	if err != nil {
		writeErrorResponse(err.Error())
		return
	}
	if args == nil {
		writeSuccessResponse()
		return
	}

	if err := runXdotool(args); err != nil {
		writeErrorResponse(fmt.Sprintf("action %s failed: %v", req.Action, err))
		return
	}

	writeSuccessResponse()
}

// buildArgs maps a request to xdotool arguments. A nil result means there is
// nothing to do.
func buildArgs(req Request) ([]string, error) {
	switch req.Action {
	case "scroll":
		var p ScrollParams
		if err := decodeParams(req.Params, &p); err != nil {
			return nil, err
		}
		if p.Amount == 0 {
			return nil, nil
		}
		button, n := buttonScrollUp, p.Amount
		if n < 0 {
			button, n = buttonScrollDown, -n
		}
		return []string{"click", "--repeat", strconv.Itoa(n), button}, nil

	case "move":
		var p MoveParams
		if err := decodeParams(req.Params, &p); err != nil {
			return nil, err
		}
		return []string{"mousemove_relative", "--", strconv.Itoa(p.DX), strconv.Itoa(p.DY)}, nil

	case "click":
		return []string{"click", buttonLeft}, nil

	default:
		return nil, fmt.Errorf("unknown action: %s", req.Action)
	}
}

func decodeParams(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to parse params: %w", err)
	}
	return nil
}

// writeErrorResponse writes an error response to stdout.
func writeErrorResponse(errMsg string) {
	json.NewEncoder(os.Stdout).Encode(Response{
		Success: false,
		Error:   errMsg,
	})
}

// writeSuccessResponse writes a success response to stdout.
func writeSuccessResponse() {
	json.NewEncoder(os.Stdout).Encode(Response{Success: true})
}

// runXdotool executes xdotool and returns any error with its output.
func runXdotool(args []string) error {
	cmd := exec.Command("xdotool", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}
