/*
Flow is a GTD-style command line companion: capture, triage, do.
*/
package main

import "github.com/josephgoksu/flow/cmd"

func main() {
	cmd.Execute()
}
