// Package main is the entry point for the htf CLI.
package main

import "htf.dev/pkg/htf/cmd"

func main() {
	cmd.Execute()
}
