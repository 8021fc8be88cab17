// Command generate runs a single value generator and prints the result, e.g.
//
//	generate num -l 13
//	generate iban_regenerate FI2112345600000785
//	generate bban_regenerate -c SE 123456789012345
package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"stovokor/gen"
)

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		names := gen.Names()
		sort.Strings(names)
		fmt.Fprintf(os.Stderr, "usage: generate <generator> [options]\navailable generators: %s\n", strings.Join(names, ", "))
		os.Exit(2)
	}

	value, err := gen.Generate(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(value)
}
