package main

import "campusctl/cmd"

func main() {
	cmd.Execute()
}
