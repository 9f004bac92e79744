package main

import "github.com/matthieukhl/shopctl/internal/cmd"

func main() {
	cmd.Execute()
}
