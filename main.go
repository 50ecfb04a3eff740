// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/palrun/palrun/cmd/palrun"

func main() {
	cmd.Execute()
}
