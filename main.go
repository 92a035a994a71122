package main

import "nathanbeddoewebdev/covidash/cmd"

func main() {
	cmd.Execute()
}
