package main

import "github.com/phytolab/epileaf/cmd"

func main() {
	cmd.Execute()
}
