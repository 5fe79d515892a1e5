package main

import (
	"shireesh.com/starter/cmd"
	"shireesh.com/starter/internal/starters"
)

func main() {
	cmd.Execute(starters.Builtin())
}
