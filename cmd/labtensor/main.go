// Package main provides the Labtensor CLI.
package main

import (
	"fmt"
	"os"

	"github.com/labtensor-ml/labtensor/calculator"
)

const version = "v0.0.1-dev"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version":
			fmt.Printf("Labtensor %s\n", version)
			return
		case "calculators":
			for _, name := range calculator.Registered() {
				fmt.Println(name)
			}
			return
		}
	}

	fmt.Println("Labtensor - Block-sparse labeled tensors for atomistic descriptors")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version        Show version")
	fmt.Println("  calculators    List registered calculators")
}
