package main

import (
	"github.com/JobThompson/Navidrome-OBS-Plugin/cmd"
)

func main() {
	cmd.Execute()
}
