package main

import (
	"bnuportal/cmd/bnuportal/commands"
	"bnuportal/lib/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
