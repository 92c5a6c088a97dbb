package main

import (
	"github.com/wenzapen/harvest/cmd"
)

func main() {
	cmd.Execute()
}
