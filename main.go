// Command testforge generates and repairs unit tests for C# sources.
package main

import "github.com/mouse-blink/testforge/cmd"

func main() {
	cmd.Execute()
}
