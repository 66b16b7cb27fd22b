package main

import "github.com/adamwrona/verdict/cmd/verdict"

func main() {
	verdict.Execute()
}
