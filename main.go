package main

import "github.com/supatools/supamove/cmd"

func main() {
	cmd.Execute()
}
