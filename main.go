package main

import "github.com/coderprepares/yescode-statusbar/cmd"

func main() {
	cmd.Execute()
}
