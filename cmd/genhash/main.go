package main

import (
	"fmt"
	"os"

	"github.com/dmitrijs2005/airconsole/internal/genhash"
)

func main() {
	if err := genhash.Run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
