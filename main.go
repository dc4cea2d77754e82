// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/mvnmerge/mvnmerge/cmd/mvnmerge"

func main() {
	cmd.Execute()
}
