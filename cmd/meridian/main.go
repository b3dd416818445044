package main

import "github.com/meridian-commerce/meridian/cmd/meridian/cmd"

func main() {
	cmd.Execute()
}
