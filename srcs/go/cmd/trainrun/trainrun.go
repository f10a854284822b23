package main

import (
	"github.com/smplab/trainrun/srcs/go/cmd/trainrun/cmd"
	"github.com/smplab/trainrun/srcs/go/utils"
)

func main() {
	if err := cmd.Execute(); err != nil {
		utils.ExitErr(err)
	}
}
