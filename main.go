package main

import "github.com/ReCoderDojoEniwa/HomePage/cmd"

func main() {
	cmd.Execute()
}
