package main

import "stationwatch/cmd"

func main() {
	cmd.Execute()
}
