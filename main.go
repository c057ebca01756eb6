package main

import (
	"github.com/ColonelBlimp/cwbeacon/cmd"
	"github.com/ColonelBlimp/cwbeacon/internal/recovery"
)

func main() {
	defer recovery.HandlePanic()
	cmd.Execute()
}
