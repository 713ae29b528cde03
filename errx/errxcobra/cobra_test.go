package errxcobra

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/Abraxas-365/wacloud/errx"
	"github.com/spf13/cobra"
)

func TestHandleErrorExitCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", errx.New("image id or link required", errx.TypeValidation), 2},
		{"external", errx.NewWithCode("131030", "not allowed", errx.TypeExternal), 6},
		{"network", errx.NewWithCode("NETWORK_ERROR", "no response", errx.TypeUnavailable), 7},
		{"plain", errors.New("boom"), 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got := -1
			cli := NewCLI(Options{
				Format:      OutputFormatText,
				ExitOnError: true,
				ExitFunc:    func(code int) { got = code },
				Out:         &out,
			})
			cli.HandleError(tt.err)
			if got != tt.want {
				t.Fatalf("expected exit %d, got %d", tt.want, got)
			}
			if out.Len() == 0 {
				t.Fatalf("expected output")
			}
		})
	}
}

func TestJSONOutputDetailed(t *testing.T) {
	var out bytes.Buffer
	cli := NewCLI(Options{Format: OutputFormatJSON, DisplayMode: DisplayModeDetailed, Out: &out})
	cli.HandleError(errx.NewWithCode("100", "Invalid parameter", errx.TypeExternal).WithDetail("field", "to"))

	var body struct {
		Error map[string]any `json:"error"`
	}
	if err := json.Unmarshal(out.Bytes(), &body); err != nil {
		t.Fatalf("invalid json %q: %v", out.String(), err)
	}
	if body.Error["code"] != "100" || body.Error["details"] == nil {
		t.Fatalf("unexpected output %v", body.Error)
	}
}

func TestWrapSwallowsError(t *testing.T) {
	var out bytes.Buffer
	cli := NewCLI(Options{DisplayMode: DisplayModeSimple, Out: &out})
	run := cli.Wrap(func(cmd *cobra.Command, args []string) error {
		return errx.New("number id is required", errx.TypeValidation)
	})

	if err := run(&cobra.Command{}, nil); err != nil {
		t.Fatalf("wrapped RunE must not return the error")
	}
	if !strings.Contains(out.String(), "number id is required") {
		t.Fatalf("unexpected output %q", out.String())
	}
}
