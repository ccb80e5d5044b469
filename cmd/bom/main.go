package main

import (
	"bom-dashboard/cmd/bom/commands"
	"bom-dashboard/lib/util/serviceutil"
)

func main() {
	ctx := serviceutil.SignalContext()
	commands.Execute(ctx)
}
