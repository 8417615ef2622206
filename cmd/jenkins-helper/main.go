package main

import "github.com/davarch/jenkins-helper/cmd/jenkins-helper/cli"

func main() {
	cli.Execute()
}
