package main

import "github.com/shivarm/code-guardian/cmd/codeguardian"

func main() { codeguardian.Execute() }
