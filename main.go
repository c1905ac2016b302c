// SPDX-License-Identifier: MPL-2.0

package main

import cmd "jellypack-cli/cmd/jellypack"

func main() {
	cmd.Execute()
}
