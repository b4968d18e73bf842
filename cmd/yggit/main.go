package main

import (
	"github.com/yggit/yggit/cmd/yggit/cmd"
)

func main() {
	cmd.Execute()
}
