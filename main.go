package main

import "github.com/pders01/prlink/cmd"

func main() {
	cmd.Execute()
}
