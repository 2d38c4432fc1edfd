package main

import "inflation-report/cmd"

func main() {
	cmd.Execute()
}
