package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Abraxas-365/wacloud/msgx/providers/msgxwhatsapp"
	"github.com/fatih/color"
)

var (
	okColor   = color.New(color.FgGreen, color.Bold)
	infoColor = color.New(color.FgCyan)
)

func printOK(w io.Writer, format string, args ...any) {
	okColor.Fprint(w, "✓ ")
	fmt.Fprintf(w, format+"\n", args...)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printSent(w io.Writer, resp *msgxwhatsapp.SendResponse) {
	to := ""
	if len(resp.Contacts) > 0 {
		to = resp.Contacts[0].WaID
	}
	printOK(w, "sent %s to %s", infoColor.Sprint(resp.MessageID()), to)
}
