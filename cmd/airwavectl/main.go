// airwavectl is the operator CLI for the Airwave wireless inventory service.
package main

import "github.com/airwave-net/airwave/pkg/cli/cmd"

func main() {
	cmd.Execute()
}
