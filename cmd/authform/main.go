package main

import "github.com/nfrund/authform/cmd/authform/cmd"

func main() {
	cmd.Execute()
}
