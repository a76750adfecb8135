package main

import "clone-social-client/cmd"

func main() {
	cmd.Run()
}
