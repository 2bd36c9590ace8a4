package main

import (
	"github.com/sagan/mapic/cmd"
	_ "github.com/sagan/mapic/cmd/all"
)

func main() {
	cmd.Execute()
}
