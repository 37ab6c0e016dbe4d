package main

import "github.com/gkwa/ringgem-setup/cmd/ringgem-setup/cmd"

func main() {
	cmd.Execute()
}
