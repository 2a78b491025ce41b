// SPDX-License-Identifier: MPL-2.0

// toolbelt is a command line tool kit: it finds tools defined in CUE files
// along registered search paths and runs them.
package main

import cmd "toolbelt-cli/cmd/toolbelt"

func main() {
	cmd.Execute()
}
