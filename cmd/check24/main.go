package main

import (
	"check24-backend/cmd/check24/commands"
	"check24-backend/lib/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
