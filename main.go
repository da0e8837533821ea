package main

import "github.com/varalys/typoscan/cmd/typoscan"

func main() { typoscan.Execute() }
