// Command graspctl is the grasp selection control panel.
package main

import "graspctl/internal/cli"

func main() {
	cli.Execute()
}
