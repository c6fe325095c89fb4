// SPDX-License-Identifier: MPL-2.0

package main

import cmd "sgbench/cmd/sgbench"

func main() {
	cmd.Execute()
}
