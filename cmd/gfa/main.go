package main

import "gfa-backend/cmd/gfa/cmd"

func main() {
	cmd.Execute()
}
