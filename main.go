package main

import "m3u-guardian/cmd"

func main() {
	cmd.Execute()
}
