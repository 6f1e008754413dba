package main

import "github.com/Timur0895/Monthly-reports-bot/cmd"

func main() {
	cmd.Execute()
}
