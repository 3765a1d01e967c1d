package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"teamhub.app/server/tools/linters/enumvalidator"
)

func main() {
	singlechecker.Main(enumvalidator.Analyzer)
}
